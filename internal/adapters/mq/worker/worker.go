// Package worker turns queued detections into alignment feedback.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/model"
	"github.com/syamnaths/Action-cam/pkg/logger"
	"github.com/syamnaths/Action-cam/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Job is what workers read off the queue.
type Job = model.DetectionJob

// Evaluator computes the alignment feedback for a detection.
type Evaluator interface {
	Evaluate(ctx context.Context, j Job) (string, error)
}

// Applier publishes feedback to the session a detection belongs to. It
// reports false when the feedback was discarded, e.g. because a newer
// frame has already been applied or the job's take has ended.
type Applier interface {
	ApplyFeedback(ctx context.Context, j Job, feedback string) (bool, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes detection jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called
	// or the queue is closed.
	Run(ctx context.Context)

	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	evaluator Evaluator
	applier   Applier
	name      string

	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, evaluator Evaluator, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		evaluator: evaluator,
		applier:   applier,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Error(ctx, "error processing detection", logger.Error(err))
			}
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Shutdown stops the worker and waits for the current job to finish.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	feedback, err := w.evaluator.Evaluate(ctx, j)
	if err != nil {
		metrics.RecordAlignment(metrics.OutcomeError)
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "evaluation_error")
		return fmt.Errorf("evaluate frame %s: %w", j.FrameID, err)
	}
	metrics.RecordAlignment(outcome(feedback))

	applied, err := w.applier.ApplyFeedback(ctx, j, feedback)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "apply_error")
		return fmt.Errorf("apply feedback for frame %s: %w", j.FrameID, err)
	}
	if !applied {
		metrics.RecordDetectionDropped("stale")
		w.logger.Debug(ctx, "stale feedback discarded",
			logger.String("session", j.SessionID),
			logger.String("frame", j.FrameID),
		)
	}
	return nil
}

func outcome(feedback string) string {
	switch feedback {
	case alignment.Aligned:
		return metrics.OutcomeAligned
	case alignment.NoSubject:
		return metrics.OutcomeNoSubject
	default:
		return metrics.OutcomeAdjust
	}
}

// Pool manages multiple workers over a shared queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
	started bool
}

// NewPool creates a new worker pool. A count below one uses one worker per CPU.
func NewPool(workerCount int, queue Queue, evaluator Evaluator, applier Applier) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(queue, evaluator, applier, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	p.started = true
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals every worker and waits for them without draining the queue.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.stop()
	}
	if !p.started {
		return
	}
	for _, w := range p.workers {
		<-w.done
	}
}

// Shutdown closes the queue and lets workers drain it, forcing them to stop
// if ctx (or the pool's own deadline) expires first.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		if !p.started {
			break
		}
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
		}
		if timedOut {
			break
		}
	}
	for _, w := range p.workers {
		w.stop()
	}
	metrics.UpdateWorkerCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
