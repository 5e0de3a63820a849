// Package effect describes the cosmetic video effects a shot can apply and
// how the camera view should present them.
package effect

import (
	"fmt"
	"strings"
)

// Kind tags the effect variant.
type Kind string

// Known effect kinds.
const (
	KindColorGrading Kind = "COLOR_GRADING"
	KindZoom         Kind = "ZOOM"
)

// Effect is a named effect. Which fields are meaningful depends on Kind:
// COLOR_GRADING uses CSSFilter, ZOOM uses From, To, DurationMS and
// TimingFunction.
type Effect struct {
	Name           string  `json:"name" koanf:"name"`
	Kind           Kind    `json:"type" koanf:"type"`
	CSSFilter      string  `json:"css_filter,omitempty" koanf:"css_filter"`
	From           float64 `json:"from,omitempty" koanf:"from"`
	To             float64 `json:"to,omitempty" koanf:"to"`
	DurationMS     int     `json:"duration_ms,omitempty" koanf:"duration_ms"`
	TimingFunction string  `json:"timing_function,omitempty" koanf:"timing_function"`
}

// Validate checks the fields required by the effect's kind.
func (e Effect) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEffect)
	}
	switch e.Kind {
	case KindColorGrading:
		if strings.TrimSpace(e.CSSFilter) == "" {
			return fmt.Errorf("%w: %s: missing css_filter", ErrInvalidEffect, e.Name)
		}
	case KindZoom:
		if e.From <= 0 || e.To <= 0 {
			return fmt.Errorf("%w: %s: zoom scales must be positive", ErrInvalidEffect, e.Name)
		}
		if e.DurationMS <= 0 {
			return fmt.Errorf("%w: %s: missing duration_ms", ErrInvalidEffect, e.Name)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	return nil
}

// Presentation is what the camera view applies for an effect.
type Presentation struct {
	Filter    string `json:"filter"`
	Keyframes string `json:"keyframes,omitempty"`
	Animation string `json:"animation,omitempty"`
	Overlay   string `json:"overlay,omitempty"`
}

// None is the presentation with no effect applied.
var None = Presentation{Filter: "none"}

// Present maps an effect to its view presentation. A nil effect clears it.
func Present(e *Effect) Presentation {
	if e == nil {
		return None
	}
	switch e.Kind {
	case KindColorGrading:
		return Presentation{Filter: e.CSSFilter, Overlay: e.Name}
	case KindZoom:
		timing := e.TimingFunction
		if timing == "" {
			timing = "linear"
		}
		return Presentation{
			Filter:    "none",
			Keyframes: fmt.Sprintf("@keyframes slowZoom { from { transform: scale(%g); } to { transform: scale(%g); } }", e.From, e.To),
			Animation: fmt.Sprintf("slowZoom %dms %s forwards", e.DurationMS, timing),
			Overlay:   e.Name,
		}
	default:
		return None
	}
}

// FilterSettings are the slider values of the effect editor.
type FilterSettings struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Sepia      float64 `json:"sepia"`
	Hue        float64 `json:"hue"`
}

// DefaultFilters is the neutral slider position.
func DefaultFilters() FilterSettings {
	return FilterSettings{Brightness: 100, Contrast: 100, Saturation: 100}
}

// Validate rejects negative percentages.
func (f FilterSettings) Validate() error {
	if f.Brightness < 0 || f.Contrast < 0 || f.Saturation < 0 || f.Sepia < 0 {
		return fmt.Errorf("%w: filter percentages must not be negative", ErrInvalidEffect)
	}
	if f.Sepia > 100 {
		return fmt.Errorf("%w: sepia above 100%%", ErrInvalidEffect)
	}
	return nil
}

// CSS renders the settings as a CSS filter list.
func (f FilterSettings) CSS() string {
	return fmt.Sprintf("brightness(%g%%) contrast(%g%%) saturate(%g%%) sepia(%g%%) hue-rotate(%gdeg)",
		f.Brightness, f.Contrast, f.Saturation, f.Sepia, f.Hue)
}

// NewPreset builds a colour grading effect from slider values.
func NewPreset(name string, f FilterSettings) (Effect, error) {
	if err := f.Validate(); err != nil {
		return Effect{}, err
	}
	e := Effect{Name: strings.TrimSpace(name), Kind: KindColorGrading, CSSFilter: f.CSS()}
	if err := e.Validate(); err != nil {
		return Effect{}, err
	}
	return e, nil
}
