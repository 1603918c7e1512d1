package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/gradepilot/internal/domain/model"
)

// RequestIDHeader carries the client idempotency key for course creation.
const RequestIDHeader = "X-Request-ID"

func errMissing(field string) error {
	return fmt.Errorf("missing %s", field)
}

// CourseHandler handles course CRUD and per-course forecasts.
type CourseHandler struct {
	deps CourseDependencies
	body *body
}

// newCourseHandler creates a new course handler.
func newCourseHandler(deps CourseDependencies, b *body) *CourseHandler {
	return &CourseHandler{deps: deps, body: b}
}

// courseRequest is the body of POST /courses and PUT /courses/{id}.
type courseRequest struct {
	Name     string          `json:"name"`
	Snapshot *model.Snapshot `json:"snapshot"`
}

// targetRequest is the body of PUT /courses/{id}/target. The value is
// coerced like a snapshot's target_grade.
type targetRequest struct {
	TargetGrade json.RawMessage `json:"target_grade"`
}

// HandleCreate handles POST /courses.
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_course"
	var req courseRequest
	if err := h.body.decode(w, r, op, &req, true); err != nil {
		h.body.fail(w, r, err)
		return
	}
	requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
	c, err := h.deps.CreateCourse(r.Context(), requestID, req.Name, req.Snapshot)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/courses/"+c.ID)
	writeJSON(w, http.StatusCreated, c)
}

// HandleList handles GET /courses.
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.ListCourses(r.Context())
	if err != nil {
		h.body.fail(w, r, Wrap("api.list_courses", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /courses/{id}.
func (h *CourseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		h.body.fail(w, r, Wrap("api.get_course", err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleReplace handles PUT /courses/{id}.
func (h *CourseHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_course"
	var req courseRequest
	if err := h.body.decode(w, r, op, &req, false); err != nil {
		h.body.fail(w, r, err)
		return
	}
	if req.Snapshot == nil {
		h.body.fail(w, r, WrapKind(op, ErrBadRequest, errMissing("snapshot")))
		return
	}
	c, err := h.deps.ReplaceCourse(r.Context(), r.PathValue("id"), req.Name, req.Snapshot)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleDelete handles DELETE /courses/{id}.
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		h.body.fail(w, r, Wrap("api.delete_course", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleForecast handles GET /courses/{id}/forecast.
func (h *CourseHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.CourseForecast(r.Context(), r.PathValue("id"))
	if err != nil {
		h.body.fail(w, r, Wrap("api.course_forecast", err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleWhatIf handles GET /courses/{id}/whatif?score=S.
func (h *CourseHandler) HandleWhatIf(w http.ResponseWriter, r *http.Request) {
	const op = "api.course_whatif"
	raw := r.URL.Query().Get("score")
	if raw == "" {
		h.body.fail(w, r, WrapKind(op, ErrBadRequest, errMissing("score")))
		return
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		h.body.fail(w, r, WrapKind(op, ErrBadRequest, errors.New("score must be a number")))
		return
	}
	p, err := h.deps.CourseWhatIf(r.Context(), r.PathValue("id"), score)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleSetTarget handles PUT /courses/{id}/target.
func (h *CourseHandler) HandleSetTarget(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_target"
	var req targetRequest
	if err := h.body.decode(w, r, op, &req, false); err != nil {
		h.body.fail(w, r, err)
		return
	}
	target := model.ParseNumber(req.TargetGrade)
	if target == nil {
		h.body.fail(w, r, WrapKind(op, ErrBadRequest, errMissing("target_grade")))
		return
	}
	c, err := h.deps.SetTarget(r.Context(), r.PathValue("id"), *target)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleSetScale handles PUT /courses/{id}/scale.
func (h *CourseHandler) HandleSetScale(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_scale"
	var scale model.GradeScale
	if err := h.body.decode(w, r, op, &scale, false); err != nil {
		h.body.fail(w, r, err)
		return
	}
	c, err := h.deps.SetScale(r.Context(), r.PathValue("id"), scale)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
