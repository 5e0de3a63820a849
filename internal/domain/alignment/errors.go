package alignment

import "errors"

// Sentinel kinds for alignment errors.
var (
	ErrInvalidRule     = errors.New("invalid alignment rule")
	ErrUnsupportedRule = errors.New("unsupported alignment rule type")
	ErrInvalidFrame    = errors.New("invalid frame dimensions")
)
