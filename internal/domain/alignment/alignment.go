// Package alignment turns one subject detection and a target position rule
// into directional framing feedback.
package alignment

import (
	"fmt"
	"math"
	"strings"
)

// Feedback messages.
const (
	NoSubject = "no subject detected"
	Aligned   = "aligned"

	MoveUp    = "move up"
	MoveDown  = "move down"
	MoveLeft  = "move left"
	MoveRight = "move right"
)

// TypeFacePosition is the only rule type currently understood.
const TypeFacePosition = "face_position"

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Detection is a single bounding box in pixels.
type Detection struct {
	TopLeft     Point `json:"top_left"`
	BottomRight Point `json:"bottom_right"`
}

// Center returns the box center in pixels.
func (d Detection) Center() Point {
	return Point{
		X: (d.TopLeft.X + d.BottomRight.X) / 2,
		Y: (d.TopLeft.Y + d.BottomRight.Y) / 2,
	}
}

// Frame is the size of the image a detection was measured against.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rule is a target position in normalized [0,1] coordinates plus a
// tolerance radius. Pointer fields distinguish "missing" from zero.
type Rule struct {
	Type      string   `json:"type" koanf:"type"`
	X         *float64 `json:"x" koanf:"x"`
	Y         *float64 `json:"y" koanf:"y"`
	Tolerance *float64 `json:"tolerance" koanf:"tolerance"`
}

// NewRule builds a face_position rule.
func NewRule(x, y, tolerance float64) Rule {
	return Rule{Type: TypeFacePosition, X: &x, Y: &y, Tolerance: &tolerance}
}

// Validate reports missing or out-of-range fields.
func (r Rule) Validate() error {
	if r.Type != "" && r.Type != TypeFacePosition {
		return fmt.Errorf("%w: %q", ErrUnsupportedRule, r.Type)
	}
	switch {
	case r.X == nil:
		return fmt.Errorf("%w: missing x", ErrInvalidRule)
	case r.Y == nil:
		return fmt.Errorf("%w: missing y", ErrInvalidRule)
	case r.Tolerance == nil:
		return fmt.Errorf("%w: missing tolerance", ErrInvalidRule)
	}
	if *r.X < 0 || *r.X > 1 || *r.Y < 0 || *r.Y > 1 {
		return fmt.Errorf("%w: target (%g, %g) outside [0,1]", ErrInvalidRule, *r.X, *r.Y)
	}
	if *r.Tolerance < 0 {
		return fmt.Errorf("%w: negative tolerance %g", ErrInvalidRule, *r.Tolerance)
	}
	return nil
}

// Evaluate returns the feedback for det against rule. A nil det yields
// NoSubject whatever the rule; errors are reserved for bad rules and frames.
func Evaluate(det *Detection, frame Frame, rule Rule) (string, error) {
	if det == nil {
		return NoSubject, nil
	}
	if err := rule.Validate(); err != nil {
		return "", err
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return "", fmt.Errorf("%w: %gx%g", ErrInvalidFrame, frame.Width, frame.Height)
	}

	c := det.Center()
	cx, cy := c.X/frame.Width, c.Y/frame.Height
	rx, ry, tol := *rule.X, *rule.Y, *rule.Tolerance

	if math.Abs(cx-rx) <= tol && math.Abs(cy-ry) <= tol {
		return Aligned, nil
	}

	hints := make([]string, 0, 2)
	switch {
	case cy > ry:
		hints = append(hints, MoveUp)
	case cy < ry:
		hints = append(hints, MoveDown)
	}
	switch {
	case cx > rx:
		hints = append(hints, MoveLeft)
	case cx < rx:
		hints = append(hints, MoveRight)
	}
	return strings.Join(hints, " and "), nil
}
