package user

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) chi.Router {
	router := chi.NewRouter()
	NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(router)
	return router
}

func post(router http.Handler, target string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserHandler(t *testing.T) {
	svc := newTestService(newFakeRepository(), &fakeProjects{}, &fakeFunds{})
	router := newTestRouter(svc)

	t.Run("Register", func(t *testing.T) {
		w := post(router, "/register", registerRequest())

		assert.Equal(t, http.StatusOK, w.Code)
		var got RegisterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 200, got.StatusCode)
		assert.Equal(t, "Registered successfully", got.Body)
		assert.Equal(t, "ada@example.com", got.User.Email)
		assert.Equal(t, "1990-12-10", got.User.Birthday)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("Register_MissingFields", func(t *testing.T) {
		w := post(router, "/register", map[string]string{"email": "x@example.com"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Register_PasswordTooLong", func(t *testing.T) {
		req := registerRequest()
		req.Email = "long@example.com"
		req.Password = string(bytes.Repeat([]byte("a"), 73))
		w := post(router, "/register", req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SignIn", func(t *testing.T) {
		w := post(router, "/signin", SignInRequest{Email: "ada@example.com", Password: "correct horse"})

		assert.Equal(t, http.StatusOK, w.Code)
		var got struct {
			StatusCode int           `json:"statusCode"`
			Body       SignInProfile `json:"body"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 200, got.StatusCode)
		assert.Equal(t, "ada", got.Body.Name)
		assert.Empty(t, got.Body.Projects)
	})

	t.Run("SignIn_WrongPassword", func(t *testing.T) {
		w := post(router, "/signin", SignInRequest{Email: "ada@example.com", Password: "nope"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"statusCode":401,"body":"Unauthorized"}`, w.Body.String())
	})

	t.Run("GetUsers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"username":"ada","email":"ada@example.com"}]`, w.Body.String())
	})
}
