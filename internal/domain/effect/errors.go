package effect

import "errors"

// Sentinel kinds for effect errors.
var (
	ErrInvalidEffect = errors.New("invalid effect")
	ErrUnknownKind   = errors.New("unknown effect type")
)
