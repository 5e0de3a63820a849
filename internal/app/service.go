// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syamnaths/Action-cam/internal/adapters/catalog"
	"github.com/syamnaths/Action-cam/internal/adapters/mq/queue"
	"github.com/syamnaths/Action-cam/internal/adapters/mq/worker"
	"github.com/syamnaths/Action-cam/internal/adapters/repository"
	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/dedupe"
	"github.com/syamnaths/Action-cam/internal/domain/effect"
	"github.com/syamnaths/Action-cam/internal/domain/guidance"
	"github.com/syamnaths/Action-cam/internal/domain/model"
	"github.com/syamnaths/Action-cam/internal/domain/shot"
	"github.com/syamnaths/Action-cam/pkg/logger"
	"github.com/syamnaths/Action-cam/pkg/metrics"
)

// Intake outcomes for a submitted detection.
const (
	IntakeQueued    = "queued"
	IntakeDuplicate = "duplicate"
	IntakeIgnored   = "ignored"
)

// Service implements the API dependencies for the action camera backend.
type Service struct {
	mu sync.RWMutex

	catalog *catalog.Catalog
	presets repository.Store

	deduper dedupe.Deduper
	queue   queue.Queue
	pool    *worker.Pool

	sessions map[string]*Session

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	maxSessions int
	clock       guidance.Clock
	now         func() time.Time
	newID       func() string

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of alignment workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued detections.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many frame ids are remembered. Zero or less
// remembers every id.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithMaxSessions caps concurrently open sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock guidance timers run on.
func WithClock(c guidance.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithNow sets the wall clock used for timestamps and recording names.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithPresetStore replaces the in-memory preset store.
func WithPresetStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.presets = store
		}
	}
}

// New constructs a Service over a loaded catalog.
func New(cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:     cat,
		sessions:    make(map[string]*Session),
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  50_000,
		maxSessions: 64,
		clock:       guidance.RealClock{},
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presets == nil {
		s.presets = repository.NewMemoryStore(repository.WithSeed(cat.Effects()...))
	}
	return s
}

// Start initializes and starts the detection pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s)

	// Workers outlive the request that started the service.
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(poolCtx)

	s.started = true
	s.logger.Info(ctx, "action camera service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("shots", len(s.catalog.Shots())),
	)
	return nil
}

// Stop closes every session and drains the detection pipeline.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping action camera service...")

	for _, sess := range sessions {
		sess.Close(ctx)
		metrics.RecordSessionClosed()
	}
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.cancel()

	s.logger.Info(ctx, "action camera service stopped")
}

// Shots returns every shot template.
func (s *Service) Shots(_ context.Context) []shot.Template {
	return s.catalog.Shots()
}

// Shot returns one shot template.
func (s *Service) Shot(_ context.Context, id string) (shot.Template, error) {
	return s.catalog.Shot(id)
}

// Effects lists configured effects merged with saved presets.
func (s *Service) Effects(ctx context.Context) []effect.Effect {
	return s.presets.List(ctx)
}

// SavePreset stores a colour grading preset built from filter sliders.
func (s *Service) SavePreset(ctx context.Context, name string, f effect.FilterSettings) (effect.Effect, error) {
	e, err := effect.NewPreset(name, f)
	if err != nil {
		return effect.Effect{}, err
	}
	if err := s.presets.Save(ctx, e); err != nil {
		return effect.Effect{}, err
	}
	s.log().Info(ctx, "preset saved", logger.String("name", e.Name), logger.String("filter", e.CSSFilter))
	return e, nil
}

// OpenSession opens a session for a shot. effectName overrides the shot's
// default effect when set.
func (s *Service) OpenSession(ctx context.Context, shotID, effectName string) (*Session, error) {
	tmpl, err := s.catalog.Shot(shotID)
	if err != nil {
		return nil, err
	}

	if effectName == "" {
		effectName = tmpl.Effect
	}
	var eff *effect.Effect
	if effectName != "" {
		e, err := s.presets.Get(ctx, effectName)
		switch {
		case err == nil:
			eff = &e
		case tmpl.Effect == effectName:
			// A missing default effect only disables the effect.
			s.log().Warn(ctx, "shot effect not configured",
				logger.String("shot", tmpl.ID),
				logger.String("effect", effectName),
			)
		default:
			return nil, err
		}
	}

	var rule *alignment.Rule
	if r, ok := tmpl.Rule(); ok {
		if _, known := s.catalog.Solver(tmpl.SolverType); known {
			rule = &r
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	if len(s.sessions) >= s.maxSessions {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, s.maxSessions)
	}

	id := s.newID()
	sess := newSession(id, tmpl, rule, eff, s.clock, s.now, s.logger.Named("session"))
	s.sessions[id] = sess

	metrics.RecordSessionCreated()
	s.logger.Info(ctx, "session created",
		logger.String("session", id),
		logger.String("shot", tmpl.ID),
		logger.Bool("alignment", rule != nil),
	)
	return sess, nil
}

// Session returns an open session.
func (s *Service) Session(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return sess, nil
}

// CloseSession ends any take and forgets the session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}

	sess.Close(ctx)
	metrics.RecordSessionClosed()
	s.logger.Info(ctx, "session closed", logger.String("session", id))
	return nil
}

// SubmitDetection queues a frame's detection for evaluation against the
// session's alignment rule. Frames arriving while no take is running, or for
// shots without a rule, are acknowledged and dropped.
func (s *Service) SubmitDetection(ctx context.Context, sessionID string, d model.FrameDetection) (string, error) {
	if d.FrameID == "" {
		return "", fmt.Errorf("%w: missing frame id", ErrInvalidDetection)
	}
	if d.Detection != nil && (d.Frame.Width <= 0 || d.Frame.Height <= 0) {
		return "", fmt.Errorf("%w: %w", ErrInvalidDetection, alignment.ErrInvalidFrame)
	}

	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return "", err
	}
	metrics.RecordDetectionReceived()

	if !sess.Recording() {
		metrics.RecordDetectionDropped("not_recording")
		return IntakeIgnored, nil
	}
	if _, ok := sess.Rule(); !ok {
		metrics.RecordDetectionDropped("no_rule")
		return IntakeIgnored, nil
	}

	key := sessionID + "/" + d.FrameID
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordDetectionDuplicate()
		return IntakeDuplicate, nil
	}

	take, seq := sess.nextFrame()
	job := model.DetectionJob{
		FrameID:   d.FrameID,
		SessionID: sessionID,
		Take:      take,
		Seq:       seq,
		Detection: d.Detection,
		Frame:     d.Frame,
		Received:  s.now(),
	}
	if err := s.queue.TryEnqueue(ctx, job); err != nil {
		s.deduper.Unrecord(ctx, key)
		metrics.RecordDetectionDropped("backpressure")
		if errors.Is(err, queue.ErrFull) {
			return "", ErrBackpressure
		}
		return "", fmt.Errorf("enqueue detection: %w", err)
	}
	return IntakeQueued, nil
}

// Evaluate implements worker.Evaluator.
func (s *Service) Evaluate(ctx context.Context, j model.DetectionJob) (string, error) { //nolint:gocritic // hugeParam: matches worker.Evaluator
	sess, err := s.Session(ctx, j.SessionID)
	if err != nil {
		return "", err
	}
	rule, ok := sess.Rule()
	if !ok {
		return "", ErrNoAlignmentRule
	}
	return alignment.Evaluate(j.Detection, j.Frame, rule)
}

// ApplyFeedback implements worker.Applier.
func (s *Service) ApplyFeedback(ctx context.Context, j model.DetectionJob, feedback string) (bool, error) { //nolint:gocritic // hugeParam: matches worker.Applier
	sess, err := s.Session(ctx, j.SessionID)
	if err != nil {
		return false, err
	}
	return sess.ApplyFeedback(j.Take, j.Seq, feedback), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"maxSessions": s.maxSessions,
		"shots":       len(s.catalog.Shots()),
		"presets":     s.presets.Count(ctx),
	}

	if s.started {
		recording := 0
		ids := make([]string, 0, len(s.sessions))
		for id, sess := range s.sessions {
			ids = append(ids, id)
			if sess.Recording() {
				recording++
			}
		}
		sort.Strings(ids)

		queueLen := s.queue.Len(ctx)
		stats["sessions"] = len(s.sessions)
		stats["sessionIDs"] = ids
		stats["recording"] = recording
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get().Named("service")
}
