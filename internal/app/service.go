// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/gradepilot/internal/adapters/repository"
	"github.com/okian/gradepilot/internal/domain/dedupe"
	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/pkg/logger"
	"github.com/okian/gradepilot/pkg/metrics"
)

// Service implements the API dependencies for GradePilot: stateless
// forecasts plus course storage and editing.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper

	// Configuration
	dedupeSize    int
	defaultTarget float64
	defaultScale  model.GradeScale

	// State
	started   bool
	forecasts atomic.Int64
	whatIfs   atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the course store. Without it Start uses a memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDedupeSize sets how many X-Request-ID values are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
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

// WithDefaults sets the target and grade scale given to new courses.
func WithDefaults(target float64, scale model.GradeScale) Option {
	return func(s *Service) {
		s.defaultTarget = target
		s.defaultScale = scale
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dedupeSize:    dedupe.DefaultMaxSize,
		defaultTarget: model.DefaultTargetGrade,
		defaultScale:  model.DefaultScale(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components. It fails when ctx is already done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting gradepilot service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using memory store")
	}
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))

	courses := s.store.Count(ctx)
	metrics.UpdateCoursesTotal(courses)

	s.started = true
	s.logger.Info(ctx, "gradepilot service started",
		logger.Int("courses", courses),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Float64("defaultTarget", s.defaultTarget),
	)
	return nil
}

// Stop closes the store. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping gradepilot service...")

	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "failed to close store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "gradepilot service stopped")
}

// components returns the store and deduper, or ErrNotStarted.
func (s *Service) components() (repository.Store, dedupe.Deduper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.deduper, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"dedupeSize":    s.dedupeSize,
		"defaultTarget": s.defaultTarget,
		"forecasts":     s.forecasts.Load(),
		"whatIfs":       s.whatIfs.Load(),
	}

	if s.started {
		courses := s.store.Count(context.Background())
		stats["courses"] = courses
		stats["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateCoursesTotal(courses)
	}

	return stats
}
