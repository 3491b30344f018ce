package httputil_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlgoRMind/algomind-be/internal/apperr"
	"github.com/AlgoRMind/algomind-be/internal/httputil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", apperr.New(apperr.Validation, "amount must be positive"), http.StatusBadRequest, "amount must be positive"},
		{"unauthorized", apperr.New(apperr.Unauthorized, "Unauthorized"), http.StatusUnauthorized, "Unauthorized"},
		{"not found wrapped", fmt.Errorf("get: %w", apperr.New(apperr.NotFound, "project not found")), http.StatusNotFound, "project not found"},
		{"conflict hides detail", apperr.Wrap(apperr.Conflict, "email already exists", errors.New("duplicate key")), http.StatusInternalServerError, "internal server error"},
		{"plain error", errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			w := httptest.NewRecorder()

			httputil.RespondWithServiceError(w, req, logger, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}

func TestRespondWithEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	httputil.RespondWithEnvelope(w, http.StatusOK, map[string]int{"fund_id": 7})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"statusCode":200,"body":{"fund_id":7}}`, w.Body.String())
}
