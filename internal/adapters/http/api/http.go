// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/gradepilot/internal/adapters/repository"
	"github.com/okian/gradepilot/internal/domain/dedupe"
	"github.com/okian/gradepilot/internal/domain/forecast"
	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/internal/domain/types"
	"github.com/okian/gradepilot/pkg/logger"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// ForecastDependencies derive results for snapshots sent by the client.
type ForecastDependencies interface {
	Forecast(ctx context.Context, snap model.Snapshot) forecast.Result
	WhatIf(ctx context.Context, snap model.Snapshot, score float64) (types.Projection, error)
}

// CourseDependencies manage stored courses.
type CourseDependencies interface {
	CreateCourse(ctx context.Context, requestID, name string, snap *model.Snapshot) (model.Course, error)
	ListCourses(ctx context.Context) ([]model.CourseInfo, error)
	GetCourse(ctx context.Context, id string) (model.Course, error)
	ReplaceCourse(ctx context.Context, id, name string, snap *model.Snapshot) (model.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	CourseForecast(ctx context.Context, id string) (forecast.Result, error)
	CourseWhatIf(ctx context.Context, id string, score float64) (types.Projection, error)
	SetTarget(ctx context.Context, id string, target float64) (model.Course, error)
	SetScale(ctx context.Context, id string, scale model.GradeScale) (model.Course, error)
}

// ItemDependencies edit the categories and assignments of a course.
type ItemDependencies interface {
	AddCategory(ctx context.Context, courseID string, p model.CategoryPatch) (model.Category, error)
	UpdateCategory(ctx context.Context, courseID, categoryID string, p model.CategoryPatch) (model.Category, error)
	DeleteCategory(ctx context.Context, courseID, categoryID string) error
	AddAssignment(ctx context.Context, courseID, categoryID string, p model.AssignmentPatch) (model.Assignment, error)
	UpdateAssignment(ctx context.Context, courseID, categoryID, assignmentID string, p model.AssignmentPatch) (model.Assignment, error)
	DeleteAssignment(ctx context.Context, courseID, categoryID, assignmentID string) error
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ForecastDependencies
	CourseDependencies
	ItemDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	forecastHandler *ForecastHandler
	courseHandler   *CourseHandler
	itemHandler     *ItemHandler
}

// Option configures a Server.
type Option func(*body)

// WithMaxBodyBytes caps request bodies. Larger bodies are rejected with 413.
func WithMaxBodyBytes(n int64) Option {
	return func(b *body) {
		if n > 0 {
			b.maxBytes = n
		}
	}
}

// WithLogger sets the logger used for unexpected handler errors.
func WithLogger(l logger.Logger) Option {
	return func(b *body) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	b := &body{maxBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Named("api")
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		forecastHandler: newForecastHandler(deps, b),
		courseHandler:   newCourseHandler(deps, b),
		itemHandler:     newItemHandler(deps, b),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("POST /forecast", "forecast", s.forecastHandler.HandleForecast)
	route("POST /forecast/whatif", "forecast_whatif", s.forecastHandler.HandleWhatIf)

	route("POST /courses", "courses", s.courseHandler.HandleCreate)
	route("GET /courses", "courses", s.courseHandler.HandleList)
	route("GET /courses/{id}", "course", s.courseHandler.HandleGet)
	route("PUT /courses/{id}", "course", s.courseHandler.HandleReplace)
	route("DELETE /courses/{id}", "course", s.courseHandler.HandleDelete)
	route("GET /courses/{id}/forecast", "course_forecast", s.courseHandler.HandleForecast)
	route("GET /courses/{id}/whatif", "course_whatif", s.courseHandler.HandleWhatIf)
	route("PUT /courses/{id}/target", "course_target", s.courseHandler.HandleSetTarget)
	route("PUT /courses/{id}/scale", "course_scale", s.courseHandler.HandleSetScale)

	route("POST /courses/{id}/categories", "categories", s.itemHandler.HandleAddCategory)
	route("PATCH /courses/{id}/categories/{cid}", "category", s.itemHandler.HandleUpdateCategory)
	route("DELETE /courses/{id}/categories/{cid}", "category", s.itemHandler.HandleDeleteCategory)
	route("POST /courses/{id}/categories/{cid}/assignments", "assignments", s.itemHandler.HandleAddAssignment)
	route("PATCH /courses/{id}/categories/{cid}/assignments/{aid}", "assignment", s.itemHandler.HandleUpdateAssignment)
	route("DELETE /courses/{id}/categories/{cid}/assignments/{aid}", "assignment", s.itemHandler.HandleDeleteAssignment)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response, so an unencodable value
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// body decodes request bodies under a size cap and maps errors to responses.
type body struct {
	maxBytes int64
	logger   logger.Logger
}

// decode reads one JSON value into v. With optional set, an empty body
// leaves v untouched.
func (b *body) decode(w http.ResponseWriter, r *http.Request, op string, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, b.maxBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return NewKind(op, ErrBodyTooLarge)
	case errors.Is(err, io.EOF) && optional:
		return nil
	case errors.Is(err, io.EOF):
		return NewKind(op, ErrBadRequest)
	default:
		return WrapKind(op, ErrBadRequest, err)
	}
}

// fail writes the response for err. Known sentinels map to client errors,
// anything else is logged and reported as 500.
func (b *body) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err)
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrInvalidScore):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, model.ErrCategoryNotFound),
		errors.Is(err, model.ErrAssignmentNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, dedupe.ErrDuplicate), errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate", err)
	default:
		b.logger.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
