package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/gradepilot/internal/adapters/repository"
	service "github.com/okian/gradepilot/internal/app"
	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/internal/domain/types"
	"github.com/okian/gradepilot/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startedService(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

// scenarioSnapshot: homework 40% at 90, exams 60% ungraded, target 90.
func scenarioSnapshot() model.Snapshot {
	s := model.NewSnapshot(90, model.DefaultScale())
	s.Categories = []model.Category{
		{ID: "hw", Name: "Homework", Weight: 40, Assignments: []model.Assignment{
			{ID: "hw1", ScoreEarned: model.Score(90), ScorePossible: 100},
		}},
		{ID: "ex", Name: "Exams", Weight: 60, Assignments: []model.Assignment{
			{ID: "ex1", ScorePossible: 100},
		}},
	}
	return s
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be started", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
			So(svc.GetStats()["defaultTarget"], ShouldEqual, 90.0)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithDedupeSize(25),
			service.WithDefaults(85, model.GradeScale{A: 93, B: 85, C: 77, D: 70}),
			service.WithStore(repository.NewMemoryStore()),
			service.WithLogger(logger.Named("test")),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["dedupeSize"], ShouldEqual, 25)
			So(stats["defaultTarget"], ShouldEqual, 85.0)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When it is used before Start", func() {
			_, err := svc.ListCourses(ctx)

			Convey("Then store operations fail with ErrNotStarted", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})

			Convey("Then stateless forecasts still work", func() {
				res := svc.Forecast(ctx, scenarioSnapshot())
				So(*res.CurrentAverage, ShouldEqual, 90)
			})
		})

		Convey("When starting with a canceled context", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			err := svc.Start(canceled)

			Convey("Then Start fails and the service stays stopped", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["courses"], ShouldEqual, 0)
				So(stats["dedupeEntries"], ShouldEqual, 0)
			})

			Convey("And stopping it twice is safe", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Forecast(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When forecasting the scenario snapshot", func() {
			res := svc.Forecast(ctx, scenarioSnapshot())

			Convey("Then the derived values match the engine", func() {
				So(res.EarnedPoints, ShouldAlmostEqual, 36, 1e-9)
				So(res.RemainingWeight, ShouldAlmostEqual, 60, 1e-9)
				So(*res.RequiredAverage, ShouldAlmostEqual, 90, 1e-9)
				So(res.Status, ShouldEqual, types.StatusHighBar)
				So(res.Achievable, ShouldBeTrue)
				So(res.Weights.Valid, ShouldBeTrue)
				So(svc.GetStats()["forecasts"], ShouldEqual, int64(1))
			})
		})

		Convey("When projecting a what-if", func() {
			p, err := svc.WhatIf(ctx, scenarioSnapshot(), 80)

			Convey("Then the projection is returned", func() {
				So(err, ShouldBeNil)
				So(p.Projected, ShouldAlmostEqual, 84, 1e-9)
				So(p.Letter, ShouldEqual, types.LetterB)
			})
		})

		Convey("When projecting a non-finite score", func() {
			_, err := svc.WhatIf(ctx, scenarioSnapshot(), math.Inf(1))

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrInvalidScore), ShouldBeTrue)
			})
		})
	})
}
