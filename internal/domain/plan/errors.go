package plan

import "errors"

// Sentinel kinds for plan errors.
var (
	ErrStepIndex  = errors.New("step index out of range")
	ErrEmptyLabel = errors.New("step label must not be empty")
)
