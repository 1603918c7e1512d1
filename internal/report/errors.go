package report

import "errors"

var (
	// ErrCourseNotFound is returned when the server has no course with the id.
	ErrCourseNotFound = errors.New("course not found")
	// ErrUnexpectedStatus is returned for any other non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrUnsupportedFile is returned for snapshot files that are neither JSON nor YAML.
	ErrUnsupportedFile = errors.New("unsupported snapshot file")
)
