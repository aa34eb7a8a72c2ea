package autograd

import "errors"

// Errors reported by the scalar core and the matrix layer.
// Call sites wrap them with operation context; match with errors.Is.
var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidAxis     = errors.New("invalid axis")
	ErrDomain          = errors.New("domain error")
)
