package model

import "errors"

// Sentinel errors for lookups and inputs inside a snapshot.
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrInvalidScore       = errors.New("score must be a finite number")
)
