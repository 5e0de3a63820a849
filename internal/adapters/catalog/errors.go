package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrLoad          = errors.New("load catalog failed")
	ErrDuplicateShot = errors.New("duplicate shot id")
	ErrNotFound      = errors.New("shot not found")
)
