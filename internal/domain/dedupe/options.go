package dedupe

// Option applies a configuration option to the Deduper.
type Option func(*Deduper)

// WithMaxSize bounds how many keys are kept. Zero or negative means
// unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *Deduper) {
		d.maxSize = maxSize
	}
}
