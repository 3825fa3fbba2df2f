package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoSource  = errors.New("no match history source configured")
	ErrNoResults = errors.New("no league produced results")
)
