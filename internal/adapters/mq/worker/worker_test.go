package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"github.com/syamnaths/Action-cam/internal/adapters/mq/worker"
	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/model"
	logging "github.com/syamnaths/Action-cam/pkg/logger"
)

type mockQueue struct {
	jobs chan worker.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan worker.Job, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Job {
	return mq.jobs
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

// ruleEvaluator evaluates every job against a centred rule, failing for
// sessions listed in errs.
type ruleEvaluator struct {
	mu   sync.Mutex
	errs map[string]error
}

func (e *ruleEvaluator) Evaluate(ctx context.Context, j worker.Job) (string, error) {
	e.mu.Lock()
	err := e.errs[j.SessionID]
	e.mu.Unlock()
	if err != nil {
		return "", err
	}
	return alignment.Evaluate(j.Detection, j.Frame, alignment.NewRule(0.5, 0.5, 0.1))
}

type feedbackSink struct {
	mu       sync.Mutex
	feedback map[string]string
	errs     map[string]error
	calls    int
}

func newFeedbackSink() *feedbackSink {
	return &feedbackSink{feedback: make(map[string]string), errs: make(map[string]error)}
}

func (s *feedbackSink) ApplyFeedback(ctx context.Context, j worker.Job, feedback string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := s.errs[j.SessionID]; err != nil {
		return false, err
	}
	s.feedback[j.SessionID] = feedback
	return true, nil
}

func (s *feedbackSink) get(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.feedback[sessionID]
	return f, ok
}

func (s *feedbackSink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func centred(session, frameID string) model.DetectionJob {
	return model.DetectionJob{
		FrameID:   frameID,
		SessionID: session,
		Seq:       1,
		Detection: &alignment.Detection{
			TopLeft:     alignment.Point{X: 40, Y: 40},
			BottomRight: alignment.Point{X: 60, Y: 60},
		},
		Frame:    alignment.Frame{Width: 100, Height: 100},
		Received: time.Now(),
	}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		evaluator := &ruleEvaluator{errs: map[string]error{}}
		sink := newFeedbackSink()

		convey.Convey("When creating a worker with options", func() {
			w := worker.NewInMemoryWorker(queue, evaluator, sink, worker.WithName("test-worker"))
			convey.So(w, convey.ShouldNotBeNil)
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(queue, evaluator, sink)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			convey.Convey("And a centred detection arrives", func() {
				queue.jobs <- centred("session-1", "frame-1")

				convey.Convey("Then the session should be told it is aligned", func() {
					convey.So(eventually(func() bool { _, ok := sink.get("session-1"); return ok }), convey.ShouldBeTrue)
					f, _ := sink.get("session-1")
					convey.So(f, convey.ShouldEqual, alignment.Aligned)
				})
			})

			convey.Convey("And a frame without a subject arrives", func() {
				j := centred("session-2", "frame-2")
				j.Detection = nil
				queue.jobs <- j

				convey.Convey("Then the no subject message should be applied", func() {
					convey.So(eventually(func() bool { _, ok := sink.get("session-2"); return ok }), convey.ShouldBeTrue)
					f, _ := sink.get("session-2")
					convey.So(f, convey.ShouldEqual, "no subject detected")
				})
			})

			convey.Convey("And evaluation fails", func() {
				evaluator.mu.Lock()
				evaluator.errs["session-3"] = errors.New("no rule")
				evaluator.mu.Unlock()
				queue.jobs <- centred("session-3", "frame-3")
				queue.jobs <- centred("session-4", "frame-4")

				convey.Convey("Then nothing should be applied for it and the worker keeps going", func() {
					convey.So(eventually(func() bool { _, ok := sink.get("session-4"); return ok }), convey.ShouldBeTrue)
					_, ok := sink.get("session-3")
					convey.So(ok, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And applying fails", func() {
				sink.mu.Lock()
				sink.errs["session-5"] = errors.New("gone")
				sink.mu.Unlock()
				queue.jobs <- centred("session-5", "frame-5")

				convey.Convey("Then the error should be swallowed by the loop", func() {
					convey.So(eventually(func() bool { return sink.callCount() == 1 }), convey.ShouldBeTrue)
					_, ok := sink.get("session-5")
					convey.So(ok, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()

				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			w := worker.NewInMemoryWorker(queue, evaluator, sink)
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()

			convey.Convey("Then the worker should stop", func() {
				stopped := false
				select {
				case <-w.Done():
					stopped = true
				case <-time.After(time.Second):
				}
				convey.So(stopped, convey.ShouldBeTrue)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new worker pool", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		evaluator := &ruleEvaluator{errs: map[string]error{}}
		sink := newFeedbackSink()

		convey.Convey("When creating a pool with the default count", func() {
			pool := worker.NewPool(0, queue, evaluator, sink)
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("When stopping a pool that never started", func() {
			pool := worker.NewPool(2, queue, evaluator, sink)
			convey.So(func() { pool.Stop() }, convey.ShouldNotPanic)
		})

		convey.Convey("When starting a pool", func() {
			pool := worker.NewPool(3, queue, evaluator, sink)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			for _, s := range []string{"a", "b", "c"} {
				queue.jobs <- centred(s, "frame-"+s)
			}

			convey.Convey("Then every detection should be evaluated", func() {
				convey.So(eventually(func() bool { return sink.callCount() == 3 }), convey.ShouldBeTrue)
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()
				err := pool.Shutdown(shutdownCtx)

				convey.Convey("Then queued work should be drained first", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(sink.callCount(), convey.ShouldEqual, 3)
				})
			})

			convey.Convey("And when stopped", func() {
				convey.So(func() { pool.Stop() }, convey.ShouldNotPanic)
			})
		})
	})
}
