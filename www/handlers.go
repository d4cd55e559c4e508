package www

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vehiclegw/vehicle"
)

type engineRequest struct {
	Action string `json:"action"`
}

func (h *Handlers) handleLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, liveMessage)
}

func (h *Handlers) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.engine.Adapter().Info(r.Context(), chi.URLParam(r, "id"))
	h.writeResult(w, info, err)
}

func (h *Handlers) handleQuery(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	op, ok := vehicle.ParseQueryOperation(action)
	if !ok {
		h.dispatchError(w, r, fmt.Errorf("invalid endpoint %q", action))
		return
	}
	result, err := h.engine.Adapter().Query(r.Context(), op, chi.URLParam(r, "id"))
	h.writeResult(w, result, err)
}

func (h *Handlers) handleCommand(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if _, ok := vehicle.ParseCommandOperation(action); !ok {
		h.dispatchError(w, r, fmt.Errorf("invalid POST request %q", action))
		return
	}

	// An empty body carries no action and fails validation in the adapter.
	var req engineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.dispatchError(w, r, fmt.Errorf("decode engine request: %w", err))
		return
	}

	result, err := h.engine.Adapter().Engine(r.Context(), chi.URLParam(r, "id"), req.Action)
	h.writeResult(w, result, err)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, h.engine.Health())
}
