package relay

import (
	"encoding/json"
	"errors"
	"net/http"
	"ratemyclass/internal/components/assert"
	"ratemyclass/internal/components/telemetry"
)

const (
	report_handler_serve = "handler.serve"
)

// Handler exposes a Relay over HTTP, every answer is a JSON document: either
// the upstream body or `{"error": "..."}`.
type Handler struct {
	inner Relay
	tel   telemetry.API
}

func NewHandler(inner Relay, tel telemetry.API) Handler {
	assert.NotNil(inner)
	assert.NotNil(tel)
	return Handler{
		inner: inner,
		tel:   telemetry.NewScopedAPI("relay_handler", tel),
	}
}

func (h Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Error{Message: message})
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "relay only accepts POST")
		return
	}

	var req Request
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid relay request: "+err.Error())
		return
	}
	if req.URL == "" || req.Options == nil {
		h.writeError(w, http.StatusBadRequest, "request is missing url or options")
		return
	}

	h.tel.ReportDebug(report_handler_serve, req.Options.Method, req.URL)

	body, err := h.inner.Send(r.Context(), req)
	if err != nil {
		h.tel.ReportWarning(report_handler_serve, err, req.URL)
		message := err.Error()
		var relayErr *Error
		if errors.As(err, &relayErr) {
			message = relayErr.Message
		}
		h.writeError(w, http.StatusOK, message)
		return
	}

	w.Header().Set("content-type", "application/json")
	w.Write(body)
}
