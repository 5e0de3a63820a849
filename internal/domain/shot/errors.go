package shot

import "errors"

// Sentinel kinds for shot template errors.
var (
	ErrInvalidShot = errors.New("invalid shot template")
)
