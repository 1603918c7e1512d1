package repository

import "errors"

// Sentinel kinds for course store errors.
var (
	ErrNotFound  = errors.New("course not found")
	ErrConflict  = errors.New("course already exists")
	ErrInvalidID = errors.New("invalid course id")
	ErrClosed    = errors.New("store closed")
)
