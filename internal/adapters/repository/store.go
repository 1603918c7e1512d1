// Package repository stores course snapshots.
package repository

import (
	"context"

	"github.com/okian/gradepilot/internal/domain/model"
)

// Mutator edits a course in place inside Update. Returning an error aborts
// the update and leaves the stored course unchanged.
type Mutator func(c *model.Course) error

// Store provides read/write access to courses.
type Store interface {
	// Create stores a new course. Returns ErrConflict if the id is taken.
	Create(ctx context.Context, c model.Course) (model.Course, error)

	// Get returns a copy of the course. Returns ErrNotFound if unknown.
	Get(ctx context.Context, id string) (model.Course, error)

	// Update applies fn to the stored course atomically and returns the result.
	Update(ctx context.Context, id string, fn Mutator) (model.Course, error)

	// Delete removes the course. Returns ErrNotFound if unknown.
	Delete(ctx context.Context, id string) error

	// List returns a summary of every course ordered by creation time.
	List(ctx context.Context) ([]model.CourseInfo, error)

	// Count returns the number of stored courses.
	Count(ctx context.Context) int

	Close() error
}

func infoOf(c model.Course) model.CourseInfo {
	return model.CourseInfo{ID: c.ID, Name: c.Name, UpdatedAt: c.UpdatedAt}
}
