package rehearse

import "errors"

// Sentinel errors for rehearsals.
var (
	ErrBadOverride = errors.New("invalid duration override")
	ErrInterrupted = errors.New("rehearsal interrupted")
)
