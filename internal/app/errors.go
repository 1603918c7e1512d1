package service

import (
	"errors"

	"github.com/okian/gradepilot/internal/adapters/repository"
	"github.com/okian/gradepilot/internal/domain/dedupe"
	"github.com/okian/gradepilot/internal/domain/model"
)

// Errors returned by Service. Most alias the sentinel of the layer that
// owns the condition so callers can match either name.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrDuplicateRequest   = dedupe.ErrDuplicate
	ErrCourseNotFound     = repository.ErrNotFound
	ErrCategoryNotFound   = model.ErrCategoryNotFound
	ErrAssignmentNotFound = model.ErrAssignmentNotFound
	ErrInvalidScore       = model.ErrInvalidScore
)
