package repository

import "errors"

// Sentinel kinds for preset errors.
var (
	ErrNotFound      = errors.New("preset not found")
	ErrInvalidPreset = errors.New("invalid preset")
)
