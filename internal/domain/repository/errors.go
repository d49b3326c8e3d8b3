package repository

import "errors"

// Error taxonomy for the pulse pipeline. Each maps to a distinct
// caller-facing HTTP status at the handler boundary.
var (
	ErrInvalidTicker    = errors.New("invalid ticker")
	ErrNotFound         = errors.New("ticker not found")
	ErrUpstreamTimeout  = errors.New("upstream timeout")
	ErrDataInsufficient = errors.New("insufficient price history")
	ErrUpstream         = errors.New("upstream failure")
)
