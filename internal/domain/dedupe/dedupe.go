// Package dedupe drops repeated match results. The same fixture often
// appears in more than one season file or feed export.
package dedupe

import (
	"time"

	"github.com/okian/matchodds/internal/domain/model"
)

// Key identifies a fixture: one league, one calendar day, one pairing.
type Key struct {
	League string
	Date   time.Time
	HomeID int
	AwayID int
}

// KeyOf builds the fixture key of a match. The date is truncated to the day.
func KeyOf(m model.MatchRecord) Key {
	return Key{League: m.League, Date: model.Date(m.Date), HomeID: m.HomeID, AwayID: m.AwayID}
}

// Deduper records seen fixture keys. When bounded, the oldest recorded key
// is evicted first, so a copy arriving after its original was evicted
// passes through. Not safe for concurrent use.
type Deduper struct {
	seen    map[Key]struct{}
	order   []Key // insertion order, bounded mode only
	maxSize int
}

// New creates an in-memory deduper with configuration options.
func New(opts ...Option) *Deduper {
	d := &Deduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[Key]struct{})
	return d
}

// SeenAndRecord reports whether k was seen before and records it if not.
func (d *Deduper) SeenAndRecord(k Key) bool {
	if _, ok := d.seen[k]; ok {
		return true
	}
	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize && len(d.order) > 0 {
			oldest := d.order[0]
			d.order = d.order[1:]
			delete(d.seen, oldest)
		}
		d.order = append(d.order, k)
	}
	d.seen[k] = struct{}{}
	return false
}

// Matches returns matches with later copies of an already seen fixture
// removed, keeping the first occurrence and the input order.
func Matches(matches []model.MatchRecord, opts ...Option) []model.MatchRecord {
	d := New(opts...)
	out := make([]model.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if !d.SeenAndRecord(KeyOf(m)) {
			out = append(out, m)
		}
	}
	return out
}
