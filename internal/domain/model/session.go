package model

import (
	"time"

	"github.com/syamnaths/Action-cam/internal/domain/effect"
	"github.com/syamnaths/Action-cam/internal/domain/plan"
)

// FacingMode is the camera the client should capture from.
type FacingMode string

// Camera facing modes.
const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// Recording describes one finished take.
type Recording struct {
	Filename  string    `json:"filename"`
	StartedAt time.Time `json:"started_at"`
	StoppedAt time.Time `json:"stopped_at"`
	Reason    string    `json:"reason"`
}

// SessionView is a point-in-time copy of a session.
type SessionView struct {
	ID           string              `json:"id"`
	ShotID       string              `json:"shot_id"`
	ShotName     string              `json:"shot_name"`
	EmbedURL     string              `json:"embed_url,omitempty"`
	Facing       FacingMode          `json:"facing_mode"`
	Recording    bool                `json:"recording"`
	Guidance     string              `json:"guidance"`
	StepIndex    int                 `json:"step_index"`
	Steps        []plan.Step         `json:"steps"`
	Lines        []string            `json:"lines"`
	Feedback     string              `json:"feedback"`
	Effect       *effect.Effect      `json:"effect,omitempty"`
	Presentation effect.Presentation `json:"presentation"`
	HasRule      bool                `json:"has_alignment_rule"`
	Recordings   []Recording         `json:"recordings"`
	CreatedAt    time.Time           `json:"created_at"`
}

// StepEdit changes one plan step. Nil fields are left as they are.
type StepEdit struct {
	Label           *string  `json:"step,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
}
