package walkforward

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownConfig = errors.New("unknown model configuration")
	ErrNoMatches     = errors.New("no matches left to score after warmup")
)
