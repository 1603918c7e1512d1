package repository

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/pkg/metrics"
)

// MemoryStore keeps courses in a map. Every read and write goes through a
// deep copy so callers never share snapshot memory with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	courses map[string]model.Course
	closed  bool
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := newSettings(opts)
	return &MemoryStore{
		courses: make(map[string]model.Course),
		now:     s.now,
	}
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(op)
	}
}

func (s *MemoryStore) Create(_ context.Context, c model.Course) (out model.Course, err error) {
	defer func(start time.Time) { observe("create", start, err) }(time.Now())

	if c.ID == "" {
		return model.Course{}, ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Course{}, ErrClosed
	}
	if _, ok := s.courses[c.ID]; ok {
		return model.Course{}, ErrConflict
	}

	stored := c.Clone()
	now := s.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.courses[stored.ID] = stored
	metrics.UpdateCoursesTotal(len(s.courses))
	return stored.Clone(), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (out model.Course, err error) {
	defer func(start time.Time) { observe("get", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Course{}, ErrClosed
	}
	c, ok := s.courses[id]
	if !ok {
		return model.Course{}, ErrNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn Mutator) (out model.Course, err error) {
	defer func(start time.Time) { observe("update", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Course{}, ErrClosed
	}
	c, ok := s.courses[id]
	if !ok {
		return model.Course{}, ErrNotFound
	}

	working := c.Clone()
	if err := fn(&working); err != nil {
		return model.Course{}, err
	}
	working.ID = c.ID
	working.CreatedAt = c.CreatedAt
	working.UpdatedAt = s.now()
	s.courses[id] = working
	return working.Clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (err error) {
	defer func(start time.Time) { observe("delete", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.courses[id]; !ok {
		return ErrNotFound
	}
	delete(s.courses, id)
	metrics.UpdateCoursesTotal(len(s.courses))
	return nil
}

func (s *MemoryStore) List(_ context.Context) (out []model.CourseInfo, err error) {
	defer func(start time.Time) { observe("list", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	all := make([]model.Course, 0, len(s.courses))
	for _, c := range s.courses {
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b model.Course) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out = make([]model.CourseInfo, 0, len(all))
	for _, c := range all {
		out = append(out, infoOf(c))
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}

// Close drops all courses. Further calls return ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.courses = make(map[string]model.Course)
	return nil
}
