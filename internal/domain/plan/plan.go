// Package plan models a shot plan: an ordered list of timed guidance steps
// whose start times are derived from the durations before them.
package plan

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Step is one timed instruction shown during a recording.
type Step struct {
	Label           string  `json:"step" koanf:"step"`
	DurationSeconds float64 `json:"duration_seconds" koanf:"duration_seconds"`
	// StartSeconds is derived; see Plan.Recompute.
	StartSeconds float64 `json:"start_time_seconds" koanf:"start_time_seconds"`
}

// maxSeconds is the longest duration, in seconds, a time.Duration can hold.
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// Duration returns the step duration, clamping negative values to zero and
// saturating values too long for a time.Duration.
func (s Step) Duration() time.Duration {
	if s.DurationSeconds <= 0 {
		return 0
	}
	if s.DurationSeconds >= maxSeconds {
		return math.MaxInt64
	}
	return time.Duration(s.DurationSeconds * float64(time.Second))
}

// Plan is an ordered sequence of steps. The zero value is an empty plan.
type Plan struct {
	Steps []Step `json:"steps"`
}

// New builds a plan from steps, copying them and recomputing start times.
func New(steps []Step) *Plan {
	p := &Plan{Steps: make([]Step, len(steps))}
	copy(p.Steps, steps)
	p.Recompute()
	return p
}

// Clone returns a deep copy so edits never leak back into a template.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return &Plan{}
	}
	return New(p.Steps)
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Steps)
}

// Recompute clamps negative durations and rewrites every start time as the
// sum of the durations before it. Running it twice yields the same result.
func (p *Plan) Recompute() {
	var cumulative float64
	for i := range p.Steps {
		if p.Steps[i].DurationSeconds < 0 {
			p.Steps[i].DurationSeconds = 0
		}
		p.Steps[i].StartSeconds = cumulative
		cumulative += p.Steps[i].DurationSeconds
	}
}

// Total returns the length of the whole plan, saturating on overflow.
func (p *Plan) Total() time.Duration {
	if p == nil {
		return 0
	}
	var total time.Duration
	for _, s := range p.Steps {
		d := s.Duration()
		if total > math.MaxInt64-d {
			return math.MaxInt64
		}
		total += d
	}
	return total
}

// SetDuration edits one step's duration and recomputes start times.
func (p *Plan) SetDuration(index int, seconds float64) error {
	if err := p.checkIndex(index); err != nil {
		return err
	}
	p.Steps[index].DurationSeconds = seconds
	p.Recompute()
	return nil
}

// SetLabel edits one step's label.
func (p *Plan) SetLabel(index int, label string) error {
	if err := p.checkIndex(index); err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyLabel
	}
	p.Steps[index].Label = label
	return nil
}

func (p *Plan) checkIndex(index int) error {
	if index < 0 || index >= p.Len() {
		return fmt.Errorf("%w: %d of %d", ErrStepIndex, index, p.Len())
	}
	return nil
}

// Lines renders the plan the way the planning view lists it: "<start>s: <label>".
func (p *Plan) Lines() []string {
	if p == nil {
		return []string{}
	}
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = fmt.Sprintf("%gs: %s", s.StartSeconds, s.Label)
	}
	return out
}

// Step returns the step at index i, reporting false past the end.
func (p *Plan) Step(i int) (Step, bool) {
	if i < 0 || i >= p.Len() {
		return Step{}, false
	}
	return p.Steps[i], true
}
