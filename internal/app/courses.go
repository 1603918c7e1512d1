package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/pkg/logger"
	"github.com/okian/gradepilot/pkg/metrics"
)

// Names given to entities created without one.
const (
	DefaultCourseName     = "Untitled Course"
	DefaultCategoryName   = "New Category"
	DefaultAssignmentName = "New Assignment"
	// DefaultScorePossible is used when a new assignment omits score_possible.
	DefaultScorePossible = 100.0
)

// assignIDs gives every category and assignment lacking an id a fresh one.
func assignIDs(snap *model.Snapshot) {
	for i := range snap.Categories {
		c := &snap.Categories[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		for j := range c.Assignments {
			if c.Assignments[j].ID == "" {
				c.Assignments[j].ID = uuid.NewString()
			}
		}
	}
}

// CreateCourse stores a new course. A non-empty requestID makes the call
// idempotent: a replay returns ErrDuplicateRequest.
// A nil snapshot starts the course empty with the configured defaults.
func (s *Service) CreateCourse(ctx context.Context, requestID, name string, snap *model.Snapshot) (model.Course, error) {
	store, deduper, err := s.components()
	if err != nil {
		return model.Course{}, err
	}

	if requestID != "" && deduper.SeenAndRecord(ctx, requestID) {
		metrics.RecordDuplicateRequest()
		s.log().Debug(ctx, "duplicate create request", logger.String("requestID", requestID))
		return model.Course{}, ErrDuplicateRequest
	}

	c := model.Course{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(name),
	}
	if c.Name == "" {
		c.Name = DefaultCourseName
	}
	if snap != nil {
		c.Snapshot = snap.Clone()
	} else {
		c.Snapshot = model.NewSnapshot(s.defaultTarget, s.defaultScale)
	}
	assignIDs(&c.Snapshot)

	created, err := store.Create(ctx, c)
	if err != nil {
		if requestID != "" {
			deduper.Unrecord(ctx, requestID)
		}
		return model.Course{}, err
	}

	metrics.RecordCourseMutation("create")
	s.log().Info(ctx, "course created",
		logger.String("course", created.ID),
		logger.Int("categories", len(created.Snapshot.Categories)),
	)
	return created, nil
}

// ListCourses returns every stored course without snapshots.
func (s *Service) ListCourses(ctx context.Context) ([]model.CourseInfo, error) {
	store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

// GetCourse returns a stored course.
func (s *Service) GetCourse(ctx context.Context, id string) (model.Course, error) {
	store, _, err := s.components()
	if err != nil {
		return model.Course{}, err
	}
	return store.Get(ctx, id)
}

// ReplaceCourse swaps the snapshot of a course, and its name when given.
func (s *Service) ReplaceCourse(ctx context.Context, id, name string, snap *model.Snapshot) (model.Course, error) {
	next := model.NewSnapshot(s.defaultTarget, s.defaultScale)
	if snap != nil {
		next = snap.Clone()
	}
	assignIDs(&next)

	return s.mutate(ctx, id, "replace", func(c *model.Course) error {
		if name := strings.TrimSpace(name); name != "" {
			c.Name = name
		}
		c.Snapshot = next
		return nil
	})
}

// DeleteCourse removes a course.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	store, _, err := s.components()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordCourseMutation("delete")
	s.log().Info(ctx, "course deleted", logger.String("course", id))
	return nil
}

// SetTarget changes the target grade of a course.
func (s *Service) SetTarget(ctx context.Context, id string, target float64) (model.Course, error) {
	return s.mutate(ctx, id, "set_target", func(c *model.Course) error {
		c.Snapshot.TargetGrade = target
		return nil
	})
}

// SetScale changes the grade scale of a course.
func (s *Service) SetScale(ctx context.Context, id string, scale model.GradeScale) (model.Course, error) {
	return s.mutate(ctx, id, "set_scale", func(c *model.Course) error {
		c.Snapshot.GradeScale = scale
		return nil
	})
}

// AddCategory appends a category built from the patch onto its defaults.
func (s *Service) AddCategory(ctx context.Context, courseID string, p model.CategoryPatch) (model.Category, error) {
	cat := model.Category{
		ID:          uuid.NewString(),
		Name:        DefaultCategoryName,
		Assignments: []model.Assignment{},
	}
	p.Apply(&cat)

	_, err := s.mutate(ctx, courseID, "add_category", func(c *model.Course) error {
		c.Snapshot.Categories = append(c.Snapshot.Categories, cat)
		return nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return cat, nil
}

// UpdateCategory patches the name and weight of a category.
func (s *Service) UpdateCategory(ctx context.Context, courseID, categoryID string, p model.CategoryPatch) (model.Category, error) {
	var out model.Category
	_, err := s.mutate(ctx, courseID, "update_category", func(c *model.Course) error {
		i := c.Snapshot.CategoryIndex(categoryID)
		if i < 0 {
			return ErrCategoryNotFound
		}
		p.Apply(&c.Snapshot.Categories[i])
		out = c.Snapshot.Categories[i].Clone()
		return nil
	})
	return out, err
}

// DeleteCategory removes a category and its assignments.
func (s *Service) DeleteCategory(ctx context.Context, courseID, categoryID string) error {
	_, err := s.mutate(ctx, courseID, "delete_category", func(c *model.Course) error {
		i := c.Snapshot.CategoryIndex(categoryID)
		if i < 0 {
			return ErrCategoryNotFound
		}
		c.Snapshot.Categories = append(c.Snapshot.Categories[:i], c.Snapshot.Categories[i+1:]...)
		return nil
	})
	return err
}

// AddAssignment appends an assignment built from the patch onto its defaults.
// New assignments are ungraded unless the patch carries a score.
func (s *Service) AddAssignment(ctx context.Context, courseID, categoryID string, p model.AssignmentPatch) (model.Assignment, error) {
	a := model.Assignment{
		ID:            uuid.NewString(),
		Name:          DefaultAssignmentName,
		ScorePossible: DefaultScorePossible,
	}
	p.Apply(&a)

	_, err := s.mutate(ctx, courseID, "add_assignment", func(c *model.Course) error {
		i := c.Snapshot.CategoryIndex(categoryID)
		if i < 0 {
			return ErrCategoryNotFound
		}
		cat := &c.Snapshot.Categories[i]
		cat.Assignments = append(cat.Assignments, a.Clone())
		return nil
	})
	if err != nil {
		return model.Assignment{}, err
	}
	return a, nil
}

// UpdateAssignment patches an assignment. An explicit null score ungrades it.
func (s *Service) UpdateAssignment(ctx context.Context, courseID, categoryID, assignmentID string, p model.AssignmentPatch) (model.Assignment, error) {
	var out model.Assignment
	_, err := s.mutate(ctx, courseID, "update_assignment", func(c *model.Course) error {
		a, err := findAssignment(c, categoryID, assignmentID)
		if err != nil {
			return err
		}
		p.Apply(a)
		out = a.Clone()
		return nil
	})
	return out, err
}

// DeleteAssignment removes an assignment from its category.
func (s *Service) DeleteAssignment(ctx context.Context, courseID, categoryID, assignmentID string) error {
	_, err := s.mutate(ctx, courseID, "delete_assignment", func(c *model.Course) error {
		i := c.Snapshot.CategoryIndex(categoryID)
		if i < 0 {
			return ErrCategoryNotFound
		}
		cat := &c.Snapshot.Categories[i]
		j := cat.AssignmentIndex(assignmentID)
		if j < 0 {
			return ErrAssignmentNotFound
		}
		cat.Assignments = append(cat.Assignments[:j], cat.Assignments[j+1:]...)
		return nil
	})
	return err
}

func findAssignment(c *model.Course, categoryID, assignmentID string) (*model.Assignment, error) {
	i := c.Snapshot.CategoryIndex(categoryID)
	if i < 0 {
		return nil, ErrCategoryNotFound
	}
	cat := &c.Snapshot.Categories[i]
	j := cat.AssignmentIndex(assignmentID)
	if j < 0 {
		return nil, ErrAssignmentNotFound
	}
	return &cat.Assignments[j], nil
}

// mutate runs fn inside a store update and records the outcome.
func (s *Service) mutate(ctx context.Context, id, op string, fn func(*model.Course) error) (model.Course, error) {
	store, _, err := s.components()
	if err != nil {
		return model.Course{}, err
	}

	updated, err := store.Update(ctx, id, fn)
	if err != nil {
		if !errors.Is(err, ErrCourseNotFound) && !errors.Is(err, ErrCategoryNotFound) && !errors.Is(err, ErrAssignmentNotFound) {
			s.log().Error(ctx, "course update failed",
				logger.String("course", id),
				logger.String("op", op),
				logger.Error(err),
			)
		}
		return model.Course{}, err
	}

	metrics.RecordCourseMutation(op)
	s.log().Debug(ctx, "course updated", logger.String("course", id), logger.String("op", op))
	return updated, nil
}
