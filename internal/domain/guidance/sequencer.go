// Package guidance walks a shot plan on a timer during a recording,
// showing each step's label and signalling when the plan is exhausted.
package guidance

import (
	"context"
	"sync"

	"github.com/syamnaths/Action-cam/internal/domain/plan"
	"github.com/syamnaths/Action-cam/pkg/logger"
	"github.com/syamnaths/Action-cam/pkg/metrics"
)

// Steps is the plan the sequencer reads from. It is consulted once per step,
// so edits to steps that have not been reached yet take effect.
type Steps interface {
	Len() int
	Step(i int) (plan.Step, bool)
}

// Display receives the current instruction. Implementations must not call
// back into the Sequencer.
type Display interface {
	Show(label string)
	Clear()
}

// State is the sequencer lifecycle state.
type State int

// Sequencer states.
const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Sequencer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCompletion registers the callback fired once per run when every step
// has been shown. It runs without the sequencer lock held.
func WithCompletion(fn func()) Option {
	return func(s *Sequencer) {
		s.onComplete = fn
	}
}

// Sequencer drives at most one timer chain over a plan.
type Sequencer struct {
	mu         sync.Mutex
	clock      Clock
	display    Display
	onComplete func()
	logger     logger.Logger

	steps   Steps
	index   int
	running bool
	// run is bumped on every start and stop so that a timer which fires
	// after being superseded is ignored.
	run     uint64
	timer   Timer
	runDone func()
}

// New creates an idle sequencer writing to display.
func New(display Display, opts ...Option) *Sequencer {
	s := &Sequencer{
		clock:   RealClock{},
		display: display,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("guidance")
	}
	return s
}

// Start begins a run at step 0, cancelling any run in progress. It is a
// no-op returning false when steps is empty.
func (s *Sequencer) Start(steps Steps) bool {
	started, _ := s.Begin(steps, nil)
	return started
}

// Begin starts a run like Start and additionally registers done for this
// run only. done is called without the sequencer lock when a timer exhausts
// the plan; it is never called for a run that is stopped or superseded. If
// every step has zero duration the run finishes inside Begin, which then
// reports finished instead of calling done.
func (s *Sequencer) Begin(steps Steps, done func()) (started, finished bool) {
	if steps == nil || steps.Len() == 0 {
		return false, false
	}

	s.mu.Lock()
	s.cancelLocked()
	s.steps = steps
	s.index = 0
	s.running = true
	s.runDone = done
	s.logger.Debug(context.Background(), "guidance started", logger.Int("steps", steps.Len()))
	finished = s.enterLocked(s.run)
	if finished {
		s.runDone = nil
	}
	s.mu.Unlock()

	if finished && s.onComplete != nil {
		s.onComplete()
	}
	return true, finished
}

// Stop cancels the pending advancement and clears the display. Calling it
// on an idle sequencer only clears the display.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logger.Debug(context.Background(), "guidance stopped", logger.Int("index", s.index))
	}
	s.cancelLocked()
	s.display.Clear()
}

// State reports whether a run is in progress.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return Running
	}
	return Idle
}

// Index returns the step being shown, or -1 when idle.
func (s *Sequencer) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return -1
	}
	return s.index
}

func (s *Sequencer) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.running = false
	s.steps = nil
	s.runDone = nil
	s.run++
}

// enterLocked shows the current step and schedules the next one. Steps with
// no duration are passed through in the same call. It reports whether the
// plan was exhausted, in which case the run is already reset.
func (s *Sequencer) enterLocked(run uint64) bool {
	for {
		step, ok := s.steps.Step(s.index)
		if !ok {
			s.running = false
			s.steps = nil
			s.timer = nil
			s.run++
			s.display.Clear()
			metrics.RecordGuidanceCompleted()
			s.logger.Debug(context.Background(), "guidance completed", logger.Int("steps", s.index))
			return true
		}

		s.display.Show(step.Label)
		metrics.RecordGuidanceStep()
		s.logger.Debug(context.Background(), "guidance step",
			logger.Int("index", s.index),
			logger.String("label", step.Label),
			logger.Duration("duration", step.Duration()),
		)

		d := step.Duration()
		if d <= 0 {
			s.index++
			continue
		}
		s.timer = s.clock.AfterFunc(d, func() { s.advance(run) })
		return false
	}
}

func (s *Sequencer) advance(run uint64) {
	s.mu.Lock()
	if !s.running || run != s.run {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.index++
	done := s.runDone
	finished := s.enterLocked(run)
	if finished {
		s.runDone = nil
	}
	s.mu.Unlock()

	if !finished {
		return
	}
	if s.onComplete != nil {
		s.onComplete()
	}
	if done != nil {
		done()
	}
}
