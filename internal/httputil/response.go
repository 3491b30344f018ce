package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AlgoRMind/algomind-be/internal/apperr"
)

// Envelope is the {"statusCode", "body"} wrapper clients of the user and
// fund routes expect.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Body       interface{} `json:"body"`
}

// RespondWithError writes an error response in JSON format
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithEnvelope wraps body in an Envelope carrying code.
func RespondWithEnvelope(w http.ResponseWriter, code int, body interface{}) {
	RespondWithJSON(w, code, Envelope{StatusCode: code, Body: body})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithServiceError logs err with its kind and writes the mapped status.
// Internal and conflict failures never expose their detail.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "kind", kind.String(), "path", r.URL.Path, "error", err)
	} else {
		logger.InfoContext(r.Context(), "request rejected", "kind", kind.String(), "path", r.URL.Path, "error", err)
	}

	RespondWithError(w, status, apperr.Message(err))
}

// Wire layouts for the formatted date fields of the user and fund routes.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)
