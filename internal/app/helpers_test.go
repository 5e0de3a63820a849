package service_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/syamnaths/Action-cam/internal/adapters/catalog"
	service "github.com/syamnaths/Action-cam/internal/app"
	"github.com/syamnaths/Action-cam/internal/domain/alignment"
	"github.com/syamnaths/Action-cam/internal/domain/effect"
	"github.com/syamnaths/Action-cam/internal/domain/guidance"
	"github.com/syamnaths/Action-cam/internal/domain/plan"
	"github.com/syamnaths/Action-cam/internal/domain/shot"
	"github.com/syamnaths/Action-cam/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func testCatalog() *catalog.Catalog {
	shots := []shot.Template{
		{
			ID:                "orbit",
			Name:              "Orbit Shot",
			YoutubeExampleURL: "https://youtu.be/dQw4w9WgXcQ",
			Effect:            "Noir",
			SolverType:        "face",
			SolverRules:       []alignment.Rule{alignment.NewRule(0.5, 0.5, 0.1)},
			GuidanceSteps: []plan.Step{
				{Label: "Frame", DurationSeconds: 2},
				{Label: "Turn", DurationSeconds: 0},
				{Label: "Walk", DurationSeconds: 3},
			},
		},
		{
			ID:            "pan",
			Name:          "Pan",
			GuidanceSteps: []plan.Step{{Label: "Pan", DurationSeconds: 5}},
		},
		{
			ID:            "instant",
			Name:          "Instant",
			GuidanceSteps: []plan.Step{{Label: "a"}, {Label: "b"}},
		},
		{
			ID:          "empty",
			Name:        "Empty",
			SolverType:  "pose",
			SolverRules: []alignment.Rule{alignment.NewRule(0.5, 0.5, 0.1)},
		},
	}
	effects := []effect.Effect{{Name: "Noir", Kind: effect.KindColorGrading, CSSFilter: "grayscale(100%)"}}
	c, err := catalog.New(shots, effects, map[string]catalog.Solver{"face": {Model: "blazeface"}})
	if err != nil {
		panic(err)
	}
	return c
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("session-%d", n.Add(1)) }
}

// newTestService returns a started service on a manual clock.
func newTestService(opts ...service.Option) (*service.Service, *guidance.ManualClock) {
	clock := guidance.NewManualClock()
	base := []service.Option{
		service.WithClock(clock),
		service.WithNow(func() time.Time { return fixedNow }),
		service.WithIDGenerator(sequentialIDs()),
		service.WithWorkerCount(2),
	}
	svc := service.New(testCatalog(), append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc, clock
}

func centred() *alignment.Detection {
	return &alignment.Detection{
		TopLeft:     alignment.Point{X: 40, Y: 40},
		BottomRight: alignment.Point{X: 60, Y: 60},
	}
}

var square = alignment.Frame{Width: 100, Height: 100}

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
