package engine

import "errors"

// The engine validates its own inputs and returns these stable error kinds;
// the transport layer decides how to surface them. Degenerate divisions are
// not errors: every ratio falls back to 0 instead of failing.
var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidBudget = errors.New("invalid budget")
	ErrInvalidRange  = errors.New("invalid range")
)
