package service

import (
	"context"
	"math"
	"time"

	"github.com/okian/gradepilot/internal/domain/forecast"
	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/internal/domain/types"
	"github.com/okian/gradepilot/pkg/logger"
	"github.com/okian/gradepilot/pkg/metrics"
)

// Forecast derives the full result for a snapshot.
func (s *Service) Forecast(ctx context.Context, snap model.Snapshot) forecast.Result {
	start := time.Now()
	res := forecast.Derive(snap)
	metrics.RecordForecast("forecast", elapsedMs(start))
	s.forecasts.Add(1)

	metrics.RecordTargetStatus(string(res.Status))
	if res.RequiredAverage != nil {
		metrics.ObserveRequiredAverage(*res.RequiredAverage)
	}
	if !res.Weights.Valid {
		metrics.RecordInvalidWeights()
	}

	s.log().Debug(ctx, "forecast derived",
		logger.Int("categories", len(snap.Categories)),
		logger.String("status", string(res.Status)),
		logger.Bool("achievable", res.Achievable),
		logger.Bool("weightsValid", res.Weights.Valid),
	)
	return res
}

// WhatIf projects the final grade for a hypothetical remaining average.
func (s *Service) WhatIf(ctx context.Context, snap model.Snapshot, score float64) (types.Projection, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return types.Projection{}, ErrInvalidScore
	}

	start := time.Now()
	p := forecast.WhatIf(snap, score)
	metrics.RecordForecast("whatif", elapsedMs(start))
	s.whatIfs.Add(1)

	s.log().Debug(ctx, "what-if projected",
		logger.Float64("score", score),
		logger.Float64("projected", p.Projected),
		logger.String("letter", string(p.Letter)),
	)
	return p, nil
}

// CourseForecast derives the result for a stored course.
func (s *Service) CourseForecast(ctx context.Context, id string) (forecast.Result, error) {
	c, err := s.GetCourse(ctx, id)
	if err != nil {
		return forecast.Result{}, err
	}
	return s.Forecast(ctx, c.Snapshot), nil
}

// CourseWhatIf projects a stored course for a hypothetical remaining average.
func (s *Service) CourseWhatIf(ctx context.Context, id string, score float64) (types.Projection, error) {
	c, err := s.GetCourse(ctx, id)
	if err != nil {
		return types.Projection{}, err
	}
	return s.WhatIf(ctx, c.Snapshot, score)
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Named("service")
	}
	return l
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
