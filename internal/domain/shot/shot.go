// Package shot holds the pre-authored shot templates users pick from.
package shot

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/plan"
)

// Template is a named recording plan with guidance steps, a default effect
// and optional framing rules.
type Template struct {
	ID                string           `json:"id" koanf:"id"`
	Name              string           `json:"name" koanf:"name"`
	Description       string           `json:"description" koanf:"description"`
	YoutubeExampleURL string           `json:"youtube_example_url,omitempty" koanf:"youtube_example_url"`
	GuidanceSteps     []plan.Step      `json:"guidance_steps" koanf:"guidance_steps"`
	Effect            string           `json:"effect,omitempty" koanf:"effect"`
	SolverType        string           `json:"solver_type,omitempty" koanf:"solver_type"`
	SolverRules       []alignment.Rule `json:"solver_rules,omitempty" koanf:"solver_rules"`
}

// Validate checks identity fields and every framing rule.
func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidShot)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: %s: missing name", ErrInvalidShot, t.ID)
	}
	for i, r := range t.SolverRules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %s: solver rule %d: %w", ErrInvalidShot, t.ID, i, err)
		}
	}
	return nil
}

// Plan returns a fresh, editable plan for the template.
func (t Template) Plan() *plan.Plan {
	return plan.New(t.GuidanceSteps)
}

// Rule returns the framing rule to evaluate, if any. Only the first rule
// is used.
func (t Template) Rule() (alignment.Rule, bool) {
	if len(t.SolverRules) == 0 {
		return alignment.Rule{}, false
	}
	return t.SolverRules[0], true
}

var youtubeID = regexp.MustCompile(`^.*(youtu.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// EmbedURL converts a YouTube watch or share link to its embed form. It
// returns "" when no 11 character video id can be found.
func EmbedURL(raw string) string {
	if raw == "" {
		return ""
	}
	m := youtubeID.FindStringSubmatch(raw)
	if len(m) < 3 || len(m[2]) != 11 {
		return ""
	}
	return "https://www.youtube.com/embed/" + m[2]
}

var whitespace = regexp.MustCompile(`\s+`)

// RecordingFilename names the file a recording of shotName is saved as.
func RecordingFilename(shotName string, at time.Time) string {
	return fmt.Sprintf("%s_%s.webm", whitespace.ReplaceAllString(shotName, "_"), at.UTC().Format("2006-01-02T15:04:05.000Z"))
}
