package fielddata

import "errors"

var (
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrNonMonotonic     = errors.New("coordinates are not strictly increasing")
	ErrMissingComponent = errors.New("field component not present")
	ErrIndexOutOfRange  = errors.New("index out of range")
)
