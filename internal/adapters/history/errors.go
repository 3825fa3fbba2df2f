package history

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoData       = errors.New("no match history found")
	ErrMalformedRow = errors.New("malformed match row")
)
