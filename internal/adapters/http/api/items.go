package api

import (
	"net/http"

	"github.com/okian/gradepilot/internal/domain/model"
)

// ItemHandler edits categories and assignments inside a stored course.
type ItemHandler struct {
	deps ItemDependencies
	body *body
}

// newItemHandler creates a new category and assignment handler.
func newItemHandler(deps ItemDependencies, b *body) *ItemHandler {
	return &ItemHandler{deps: deps, body: b}
}

// HandleAddCategory handles POST /courses/{id}/categories.
func (h *ItemHandler) HandleAddCategory(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_category"
	var p model.CategoryPatch
	if err := h.body.decode(w, r, op, &p, true); err != nil {
		h.body.fail(w, r, err)
		return
	}
	c, err := h.deps.AddCategory(r.Context(), r.PathValue("id"), p)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleUpdateCategory handles PATCH /courses/{id}/categories/{cid}.
func (h *ItemHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_category"
	var p model.CategoryPatch
	if err := h.body.decode(w, r, op, &p, false); err != nil {
		h.body.fail(w, r, err)
		return
	}
	c, err := h.deps.UpdateCategory(r.Context(), r.PathValue("id"), r.PathValue("cid"), p)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleDeleteCategory handles DELETE /courses/{id}/categories/{cid}.
func (h *ItemHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteCategory(r.Context(), r.PathValue("id"), r.PathValue("cid")); err != nil {
		h.body.fail(w, r, Wrap("api.delete_category", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddAssignment handles POST /courses/{id}/categories/{cid}/assignments.
func (h *ItemHandler) HandleAddAssignment(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_assignment"
	var p model.AssignmentPatch
	if err := h.body.decode(w, r, op, &p, true); err != nil {
		h.body.fail(w, r, err)
		return
	}
	a, err := h.deps.AddAssignment(r.Context(), r.PathValue("id"), r.PathValue("cid"), p)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// HandleUpdateAssignment handles PATCH /courses/{id}/categories/{cid}/assignments/{aid}.
func (h *ItemHandler) HandleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_assignment"
	var p model.AssignmentPatch
	if err := h.body.decode(w, r, op, &p, false); err != nil {
		h.body.fail(w, r, err)
		return
	}
	a, err := h.deps.UpdateAssignment(r.Context(), r.PathValue("id"), r.PathValue("cid"), r.PathValue("aid"), p)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleDeleteAssignment handles DELETE /courses/{id}/categories/{cid}/assignments/{aid}.
func (h *ItemHandler) HandleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteAssignment(r.Context(), r.PathValue("id"), r.PathValue("cid"), r.PathValue("aid"))
	if err != nil {
		h.body.fail(w, r, Wrap("api.delete_assignment", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
