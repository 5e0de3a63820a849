package service

import (
	"context"
	"sync"
	"time"

	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/effect"
	"github.com/syamnaths/Action-cam/internal/domain/guidance"
	"github.com/syamnaths/Action-cam/internal/domain/model"
	"github.com/syamnaths/Action-cam/internal/domain/plan"
	"github.com/syamnaths/Action-cam/internal/domain/shot"
	"github.com/syamnaths/Action-cam/pkg/logger"
	"github.com/syamnaths/Action-cam/pkg/metrics"
)

// Reasons a recording ends.
const (
	ReasonManual    = "manual"
	ReasonCompleted = "completed"
	ReasonClosed    = "closed"
)

// overlay is the guidance text shown over the camera view.
type overlay struct {
	mu   sync.RWMutex
	text string
}

func (o *overlay) Show(label string) {
	o.mu.Lock()
	o.text = label
	o.mu.Unlock()
}

func (o *overlay) Clear() {
	o.mu.Lock()
	o.text = ""
	o.mu.Unlock()
}

func (o *overlay) get() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.text
}

// Session is one user's pass through a shot: the editable plan, camera and
// effect choice, and the recording with its guidance run.
//
// Lock order is mu, then the sequencer's lock, then planMu or the overlay.
type Session struct {
	id      string
	tmpl    shot.Template
	rule    *alignment.Rule
	created time.Time
	now     func() time.Time
	logger  logger.Logger

	overlay *overlay
	seq     *guidance.Sequencer

	planMu sync.RWMutex
	plan   *plan.Plan

	mu          sync.Mutex
	facing      model.FacingMode
	effect      *effect.Effect
	recording   bool
	take        uint64
	takeStart   time.Time
	recordings  []model.Recording
	feedback    string
	feedbackSeq uint64
	frameSeq    uint64
}

func newSession(id string, tmpl shot.Template, rule *alignment.Rule, eff *effect.Effect, clock guidance.Clock, now func() time.Time, l logger.Logger) *Session {
	s := &Session{
		id:      id,
		tmpl:    tmpl,
		rule:    rule,
		created: now(),
		now:     now,
		logger:  l.With(logger.String("session", id)),
		overlay: &overlay{},
		plan:    tmpl.Plan(),
		facing:  model.FacingUser,
		effect:  eff,
	}
	s.seq = guidance.New(s.overlay, guidance.WithClock(clock), guidance.WithLogger(s.logger))
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Len implements guidance.Steps over the live plan.
func (s *Session) Len() int {
	s.planMu.RLock()
	defer s.planMu.RUnlock()
	return s.plan.Len()
}

// Step implements guidance.Steps over the live plan.
func (s *Session) Step(i int) (plan.Step, bool) {
	s.planMu.RLock()
	defer s.planMu.RUnlock()
	return s.plan.Step(i)
}

// SetStepDuration edits one step's duration.
func (s *Session) SetStepDuration(index int, seconds float64) error {
	return s.editPlan(func(p *plan.Plan) error { return p.SetDuration(index, seconds) })
}

// SetStepLabel edits one step's label.
func (s *Session) SetStepLabel(index int, label string) error {
	return s.editPlan(func(p *plan.Plan) error { return p.SetLabel(index, label) })
}

// EditStep applies a label and/or duration change to one step. Nothing is
// changed if either part is invalid.
func (s *Session) EditStep(index int, edit model.StepEdit) error {
	return s.editPlan(func(p *plan.Plan) error {
		if edit.Label != nil {
			if err := p.SetLabel(index, *edit.Label); err != nil {
				return err
			}
		}
		if edit.DurationSeconds != nil {
			return p.SetDuration(index, *edit.DurationSeconds)
		}
		return nil
	})
}

func (s *Session) editPlan(edit func(*plan.Plan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return ErrPlanLocked
	}
	s.planMu.Lock()
	defer s.planMu.Unlock()
	return edit(s.plan)
}

// SwitchCamera toggles between the user and environment cameras and returns
// the new mode.
func (s *Session) SwitchCamera() model.FacingMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.facing == model.FacingUser {
		s.facing = model.FacingEnvironment
	} else {
		s.facing = model.FacingUser
	}
	s.logger.Debug(context.Background(), "camera switched", logger.String("facing", string(s.facing)))
	return s.facing
}

// SetFacing selects a camera explicitly.
func (s *Session) SetFacing(mode model.FacingMode) error {
	if mode != model.FacingUser && mode != model.FacingEnvironment {
		return ErrUnknownFacingMode
	}
	s.mu.Lock()
	s.facing = mode
	s.mu.Unlock()
	return nil
}

// StartRecording begins a take and starts guidance over the current plan.
// When every step has zero duration the take ends immediately.
func (s *Session) StartRecording(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return ErrAlreadyRecording
	}

	s.recording = true
	s.take++
	s.takeStart = s.now()
	s.feedback = ""
	metrics.RecordRecordingStarted()
	s.logger.Info(ctx, "recording started", logger.String("shot", s.tmpl.ID))

	take := s.take
	if _, finished := s.seq.Begin(s, func() { s.guidanceDone(take) }); finished {
		s.stopLocked(ctx, ReasonCompleted)
	}
	return nil
}

// StopRecording ends the current take.
func (s *Session) StopRecording(ctx context.Context) (model.Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return model.Recording{}, ErrNotRecording
	}
	return s.stopLocked(ctx, ReasonManual), nil
}

func (s *Session) guidanceDone(take uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording || s.take != take {
		return
	}
	s.stopLocked(context.Background(), ReasonCompleted)
}

func (s *Session) stopLocked(ctx context.Context, reason string) model.Recording {
	s.seq.Stop()
	s.recording = false
	s.feedback = ""

	stopped := s.now()
	rec := model.Recording{
		Filename:  shot.RecordingFilename(s.tmpl.Name, stopped),
		StartedAt: s.takeStart,
		StoppedAt: stopped,
		Reason:    reason,
	}
	s.recordings = append(s.recordings, rec)

	metrics.RecordRecordingStopped(reason)
	s.logger.Info(ctx, "recording stopped",
		logger.String("reason", reason),
		logger.String("file", rec.Filename),
		logger.Duration("length", stopped.Sub(s.takeStart)),
	)
	return rec
}

// Recording reports whether a take is in progress.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Take returns the number of the current or most recent take, zero before
// the first one.
func (s *Session) Take() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.take
}

// nextFrame reserves the sequence number for an incoming detection and
// reports the take it belongs to.
func (s *Session) nextFrame() (take, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameSeq++
	return s.take, s.frameSeq
}

// ApplyFeedback replaces the shown feedback with the result for frame seq of
// the given take. It is discarded when no take is running, when the frame
// belongs to an earlier take, or when a later frame has already been applied.
func (s *Session) ApplyFeedback(take, seq uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording || take != s.take || seq <= s.feedbackSeq {
		return false
	}
	s.feedbackSeq = seq
	s.feedback = text
	return true
}

// Rule returns the alignment rule detections are judged against.
func (s *Session) Rule() (alignment.Rule, bool) {
	if s.rule == nil {
		return alignment.Rule{}, false
	}
	return *s.rule, true
}

// Close ends any running take.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		s.stopLocked(ctx, ReasonClosed)
	}
	s.seq.Stop()
}

// View returns a snapshot of the session.
func (s *Session) View() model.SessionView {
	s.mu.Lock()
	v := model.SessionView{
		ID:         s.id,
		ShotID:     s.tmpl.ID,
		ShotName:   s.tmpl.Name,
		EmbedURL:   shot.EmbedURL(s.tmpl.YoutubeExampleURL),
		Facing:     s.facing,
		Recording:  s.recording,
		Feedback:   s.feedback,
		HasRule:    s.rule != nil,
		Recordings: append([]model.Recording(nil), s.recordings...),
		CreatedAt:  s.created,
	}
	if s.effect != nil {
		e := *s.effect
		v.Effect = &e
	}
	v.Presentation = effect.Present(s.effect)
	v.StepIndex = s.seq.Index()
	v.Guidance = s.overlay.get()
	s.mu.Unlock()

	s.planMu.RLock()
	p := s.plan.Clone()
	s.planMu.RUnlock()
	v.Steps = p.Steps
	v.Lines = p.Lines()
	return v
}
