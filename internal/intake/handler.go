package intake

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/salinmesh/lead-intake/internal/leads"
	"github.com/salinmesh/lead-intake/internal/ratelimit"
	"github.com/salinmesh/lead-intake/pkg/logging"
)

// Handler handles HTTP requests for lead submissions
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new intake handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type errorResponse struct {
	Error   string             `json:"error"`
	Details []leads.FieldError `json:"details,omitempty"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitLead handles POST /api/lead requests
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var raw leads.RawSubmission
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.logger.Info("failed to decode submission", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	raw.ClientIdentity = clientIdentity(r)

	result := h.service.Submit(r.Context(), &raw)
	if result.Accepted {
		writeJSON(w, http.StatusOK, successResponse{Success: true, Message: result.Message})
		return
	}

	switch result.Kind {
	case KindRateLimited:
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests. Please try again later."})
	case KindBotSuspected:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid submission"})
	case KindInvalidInput:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid form data", Details: result.Fields})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error. Please try again later."})
	}
}

// clientIdentity derives the rate-limit identity from proxy-forwarded address
// headers; first populated one wins. It is never taken from the body.
func clientIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return ratelimit.FallbackIdentity
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
