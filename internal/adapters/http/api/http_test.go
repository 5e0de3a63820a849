package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/syamnaths/Action-cam/internal/adapters/catalog"
	"github.com/syamnaths/Action-cam/internal/adapters/http/api"
	service "github.com/syamnaths/Action-cam/internal/app"
	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/effect"
	"github.com/syamnaths/Action-cam/internal/domain/guidance"
	"github.com/syamnaths/Action-cam/internal/domain/model"
	"github.com/syamnaths/Action-cam/internal/domain/plan"
	"github.com/syamnaths/Action-cam/internal/domain/shot"
	"github.com/syamnaths/Action-cam/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testCatalog() *catalog.Catalog {
	shots := []shot.Template{
		{
			ID:                "orbit",
			Name:              "Orbit Shot",
			YoutubeExampleURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Effect:            "Noir",
			SolverType:        "face",
			SolverRules:       []alignment.Rule{alignment.NewRule(0.5, 0.5, 0.1)},
			GuidanceSteps: []plan.Step{
				{Label: "Frame", DurationSeconds: 2},
				{Label: "Walk", DurationSeconds: 3},
			},
		},
		{
			ID:            "pan",
			Name:          "Pan",
			GuidanceSteps: []plan.Step{{Label: "Pan", DurationSeconds: 5}},
		},
	}
	effects := []effect.Effect{{Name: "Noir", Kind: effect.KindColorGrading, CSSFilter: "grayscale(100%)"}}
	c, err := catalog.New(shots, effects, map[string]catalog.Solver{"face": {Model: "blazeface"}})
	if err != nil {
		panic(err)
	}
	return c
}

type fixture struct {
	svc   *service.Service
	clock *guidance.ManualClock
	mux   *http.ServeMux
}

func newFixture(wrap func(*service.Service) api.Dependencies) *fixture {
	clock := guidance.NewManualClock()
	svc := service.New(testCatalog(),
		service.WithClock(clock),
		service.WithNow(func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }),
		service.WithIDGenerator(func() string { return "s1" }),
		service.WithWorkerCount(1),
	)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	var deps api.Dependencies = svc
	if wrap != nil {
		deps = wrap(svc)
	}
	mux := http.NewServeMux()
	api.NewServer(deps, svc).Register(context.Background(), mux)
	return &fixture{svc: svc, clock: clock, mux: mux}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func TestServer_Catalog(t *testing.T) {
	Convey("Given an API server over a started service", t, func() {
		f := newFixture(nil)
		defer f.svc.Stop(context.Background())

		Convey("When listing shots", func() {
			w := f.do("GET", "/shots", "")

			Convey("Then every shot is returned with its embed link", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				shots := decode[[]map[string]any](w)
				So(len(shots), ShouldEqual, 2)
				So(shots[0]["id"], ShouldEqual, "orbit")
				So(shots[0]["embed_url"], ShouldEqual, "https://www.youtube.com/embed/dQw4w9WgXcQ")
			})
		})

		Convey("When fetching one shot", func() {
			w := f.do("GET", "/shots/orbit", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			got := decode[shot.Template](w)
			So(got.GuidanceSteps[1].StartSeconds, ShouldEqual, 2)
		})

		Convey("When fetching an unknown shot", func() {
			w := f.do("GET", "/shots/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[map[string]string](w)["code"], ShouldEqual, "not_found")
		})

		Convey("When saving a preset", func() {
			w := f.do("POST", "/effects", `{"name":"Warm","brightness":110,"sepia":20}`)

			Convey("Then it is stored as a colour grading effect", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				e := decode[effect.Effect](w)
				So(e.Kind, ShouldEqual, effect.KindColorGrading)
				So(e.CSSFilter, ShouldEqual, "brightness(110%) contrast(100%) saturate(100%) sepia(20%) hue-rotate(0deg)")

				list := decode[[]effect.Effect](f.do("GET", "/effects", ""))
				So(len(list), ShouldEqual, 2)
			})
		})

		Convey("When a preset has no name", func() {
			w := f.do("POST", "/effects", `{"brightness":110}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body is not JSON", func() {
			w := f.do("POST", "/effects", `{`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting stats and health", func() {
			So(f.do("GET", "/stats", "").Code, ShouldEqual, http.StatusOK)
			So(f.do("GET", "/healthz", "").Code, ShouldEqual, http.StatusOK)
		})

		Convey("When a route exists but the method does not", func() {
			So(f.do("DELETE", "/shots", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestServer_Sessions(t *testing.T) {
	Convey("Given a session created over HTTP", t, func() {
		f := newFixture(nil)
		defer f.svc.Stop(context.Background())

		w := f.do("POST", "/sessions", `{"shot_id":"orbit"}`)
		So(w.Code, ShouldEqual, http.StatusCreated)
		So(w.Header().Get("Location"), ShouldEqual, "/sessions/s1")
		v := decode[model.SessionView](w)
		So(v.Facing, ShouldEqual, model.FacingUser)
		So(v.Effect.Name, ShouldEqual, "Noir")

		Convey("When editing a step duration", func() {
			w := f.do("PUT", "/sessions/s1/steps/0", `{"duration_seconds":4}`)

			Convey("Then later start times move", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				v := decode[model.SessionView](w)
				So(v.Steps[1].StartSeconds, ShouldEqual, 4)
			})
		})

		Convey("When an edit is empty or out of range", func() {
			So(f.do("PUT", "/sessions/s1/steps/0", `{}`).Code, ShouldEqual, http.StatusBadRequest)
			So(f.do("PUT", "/sessions/s1/steps/x", `{"step":"a"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(f.do("PUT", "/sessions/s1/steps/9", `{"step":"a"}`).Code, ShouldEqual, http.StatusNotFound)
			So(f.do("PUT", "/sessions/s1/steps/0", `{"step":"  "}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When switching the camera", func() {
			v := decode[model.SessionView](f.do("POST", "/sessions/s1/camera/switch", ""))
			So(v.Facing, ShouldEqual, model.FacingEnvironment)
		})

		Convey("When a take runs to the end of the plan", func() {
			w := f.do("POST", "/sessions/s1/recording/start", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[model.SessionView](w).Guidance, ShouldEqual, "Frame")

			So(f.do("POST", "/sessions/s1/recording/start", "").Code, ShouldEqual, http.StatusConflict)
			So(f.do("PUT", "/sessions/s1/steps/0", `{"step":"x"}`).Code, ShouldEqual, http.StatusConflict)

			f.clock.Advance(5 * time.Second)

			Convey("Then the recording stops on its own", func() {
				v := decode[model.SessionView](f.do("GET", "/sessions/s1", ""))
				So(v.Recording, ShouldBeFalse)
				So(len(v.Recordings), ShouldEqual, 1)
				So(v.Recordings[0].Reason, ShouldEqual, service.ReasonCompleted)
				So(f.do("POST", "/sessions/s1/recording/stop", "").Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When a take is stopped by hand", func() {
			f.do("POST", "/sessions/s1/recording/start", "")
			w := f.do("POST", "/sessions/s1/recording/stop", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			rec := decode[model.Recording](w)
			So(rec.Filename, ShouldEqual, "Orbit_Shot_2026-03-14T09:26:53.000Z.webm")
		})

		Convey("When the session is deleted", func() {
			So(f.do("DELETE", "/sessions/s1", "").Code, ShouldEqual, http.StatusNoContent)
			So(f.do("GET", "/sessions/s1", "").Code, ShouldEqual, http.StatusNotFound)
			So(f.do("DELETE", "/sessions/s1", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given bad session requests", t, func() {
		f := newFixture(nil)
		defer f.svc.Stop(context.Background())

		So(f.do("POST", "/sessions", `{}`).Code, ShouldEqual, http.StatusBadRequest)
		So(f.do("POST", "/sessions", `{"shot_id":"nope"}`).Code, ShouldEqual, http.StatusNotFound)
		So(f.do("POST", "/sessions", `{"shot_id":"orbit","effect":"Missing"}`).Code, ShouldEqual, http.StatusNotFound)
	})
}

func TestServer_Detections(t *testing.T) {
	Convey("Given a recording session", t, func() {
		f := newFixture(nil)
		defer f.svc.Stop(context.Background())
		f.do("POST", "/sessions", `{"shot_id":"orbit"}`)
		f.do("POST", "/sessions/s1/recording/start", "")

		body := `{"frame_id":"f1","detection":{"top_left":{"x":10,"y":40},"bottom_right":{"x":30,"y":60}},"frame":{"width":100,"height":100}}`

		Convey("When a detection is submitted", func() {
			w := f.do("POST", "/sessions/s1/detections", body)

			Convey("Then it is queued and its feedback reaches the session", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(decode[map[string]any](w)["status"], ShouldEqual, service.IntakeQueued)

				deadline := time.Now().Add(2 * time.Second)
				var v model.SessionView
				for time.Now().Before(deadline) {
					v = decode[model.SessionView](f.do("GET", "/sessions/s1", ""))
					if v.Feedback != "" {
						break
					}
					time.Sleep(5 * time.Millisecond)
				}
				So(v.Feedback, ShouldEqual, alignment.MoveRight)
			})

			Convey("And the same frame again is a duplicate", func() {
				w := f.do("POST", "/sessions/s1/detections", body)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]any](w)["duplicate"], ShouldEqual, true)
			})
		})

		Convey("When the frame id is missing", func() {
			So(f.do("POST", "/sessions/s1/detections", `{"frame":{"width":1,"height":1}}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the frame has no size", func() {
			w := f.do("POST", "/sessions/s1/detections", `{"frame_id":"f2","detection":{"top_left":{"x":1,"y":1},"bottom_right":{"x":2,"y":2}}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the session is unknown", func() {
			So(f.do("POST", "/sessions/nope/detections", body).Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a full queue", t, func() {
		f := newFixture(func(svc *service.Service) api.Dependencies { return saturated{svc} })
		defer f.svc.Stop(context.Background())

		w := f.do("POST", "/sessions/s1/detections", `{"frame_id":"f1","frame":{"width":1,"height":1}}`)
		So(w.Code, ShouldEqual, http.StatusTooManyRequests)
		So(decode[map[string]string](w)["code"], ShouldEqual, "backpressure")
	})
}

// saturated rejects every detection as if the queue were full.
type saturated struct {
	*service.Service
}

func (saturated) SubmitDetection(context.Context, string, model.FrameDetection) (string, error) {
	return "", service.ErrBackpressure
}

func TestServer_EvaluateAlignment(t *testing.T) {
	Convey("Given the stateless alignment endpoint", t, func() {
		f := newFixture(nil)
		defer f.svc.Stop(context.Background())
		rule := `"rule":{"type":"face_position","x":0.5,"y":0.5,"tolerance":0.1}`

		Convey("When the subject is centred", func() {
			w := f.do("POST", "/alignment/evaluate",
				`{"detection":{"top_left":{"x":40,"y":40},"bottom_right":{"x":60,"y":60}},"frame":{"width":100,"height":100},`+rule+`}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			got := decode[map[string]any](w)
			So(got["feedback"], ShouldEqual, alignment.Aligned)
			So(got["aligned"], ShouldEqual, true)
		})

		Convey("When nothing was detected", func() {
			w := f.do("POST", "/alignment/evaluate", `{"detection":null,`+rule+`}`)
			So(decode[map[string]any](w)["feedback"], ShouldEqual, alignment.NoSubject)
		})

		Convey("When the rule is missing or incomplete", func() {
			So(f.do("POST", "/alignment/evaluate", `{"frame":{"width":1,"height":1}}`).Code, ShouldEqual, http.StatusBadRequest)
			w := f.do("POST", "/alignment/evaluate",
				`{"detection":{"top_left":{"x":40,"y":40},"bottom_right":{"x":60,"y":60}},"frame":{"width":100,"height":100},"rule":{"x":0.5}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
