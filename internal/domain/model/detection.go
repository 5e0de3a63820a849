// Package model holds the values passed between the HTTP layer, the
// service and the detection pipeline.
package model

import (
	"time"

	"github.com/syamnaths/Action-cam/internal/domain/alignment"
)

// FrameDetection is one frame's detection result as submitted by a client.
// A nil Detection means no subject was found in the frame.
type FrameDetection struct {
	FrameID   string
	Detection *alignment.Detection
	Frame     alignment.Frame
}

// DetectionJob is a detection accepted for evaluation. Take names the
// recording it was captured in and Seq orders jobs within a session, so late
// results never overwrite newer ones or leak into a later take.
type DetectionJob struct {
	FrameID   string
	SessionID string
	Take      uint64
	Seq       uint64
	Detection *alignment.Detection
	Frame     alignment.Frame
	Received  time.Time
}
