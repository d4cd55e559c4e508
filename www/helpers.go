package www

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"vehiclegw/metrics"
	"vehiclegw/vehicle"
)

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error(err, "encode response")
	}
}

// writeResult writes result, or the failure body for err. Both go out
// with status 200.
func (h *Handlers) writeResult(w http.ResponseWriter, result any, err error) {
	if err != nil {
		h.jsonOK(w, vehicle.ResultFor(err))
		return
	}
	h.jsonOK(w, result)
}

func (h *Handlers) dispatchError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error(err, "unable to process request",
		"method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
	metrics.RecordRequest("dispatch", metrics.OutcomeInvalid)
	h.jsonOK(w, vehicle.ResultFor(vehicle.DispatchError(err)))
}
