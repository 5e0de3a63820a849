package service

import "errors"

// Sentinel errors returned by the service and its sessions.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrSessionNotFound   = errors.New("session not found")
	ErrTooManySessions   = errors.New("too many open sessions")
	ErrAlreadyRecording  = errors.New("already recording")
	ErrNotRecording      = errors.New("not recording")
	ErrPlanLocked        = errors.New("plan cannot be edited while recording")
	ErrBackpressure      = errors.New("detection queue full")
	ErrInvalidDetection  = errors.New("invalid detection")
	ErrNoAlignmentRule   = errors.New("shot has no alignment rule")
	ErrUnknownFacingMode = errors.New("unknown facing mode")
)
