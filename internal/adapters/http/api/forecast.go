package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/gradepilot/internal/domain/model"
)

// ForecastHandler serves stateless forecasts for snapshots in the body.
type ForecastHandler struct {
	deps ForecastDependencies
	body *body
}

// newForecastHandler creates a new forecast handler.
func newForecastHandler(deps ForecastDependencies, b *body) *ForecastHandler {
	return &ForecastHandler{deps: deps, body: b}
}

// whatIfRequest is the body of POST /forecast/whatif.
type whatIfRequest struct {
	Snapshot *model.Snapshot `json:"snapshot"`
	Score    json.RawMessage `json:"score"`
}

// HandleForecast handles POST /forecast.
func (h *ForecastHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.forecast"
	var snap model.Snapshot
	if err := h.body.decode(w, r, op, &snap, false); err != nil {
		h.body.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Forecast(r.Context(), snap))
}

// HandleWhatIf handles POST /forecast/whatif.
func (h *ForecastHandler) HandleWhatIf(w http.ResponseWriter, r *http.Request) {
	const op = "api.forecast_whatif"
	var req whatIfRequest
	if err := h.body.decode(w, r, op, &req, false); err != nil {
		h.body.fail(w, r, err)
		return
	}
	score := model.ParseNumber(req.Score)
	switch {
	case req.Snapshot == nil:
		h.body.fail(w, r, WrapKind(op, ErrBadRequest, errMissing("snapshot")))
		return
	case score == nil:
		h.body.fail(w, r, WrapKind(op, ErrBadRequest, errMissing("score")))
		return
	}

	p, err := h.deps.WhatIf(r.Context(), *req.Snapshot, *score)
	if err != nil {
		h.body.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
