package types

import "errors"

// Domain errors shared across pipeline packages.
var (
	// Loader errors
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// Matching errors
	ErrEmptyQuery = errors.New("query cannot be empty")

	// Validation errors
	ErrNegativePrice = errors.New("price must be non-negative")
	ErrDanglingEdge  = errors.New("relationship source is not a product node")
	ErrEmptyReason   = errors.New("match reason cannot be empty")
)
