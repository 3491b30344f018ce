package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlgoRMind/algomind-be/internal/config"
	"github.com/AlgoRMind/algomind-be/internal/messaging"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(router chi.Router) {
	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewRouter_Prefix(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := newRouter(config.ServerConfig{RoutePrefix: "/api", CORSOrigins: []string{"*"}}, logger, pingRoutes{})

	assert.Equal(t, http.StatusTeapot, serve(router, http.MethodGet, "/api/ping").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/ping").Code)

	for _, target := range []string{"/health-check", "/api/health-check"} {
		w := serve(router, http.MethodGet, target)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	}

	w := serve(router, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Solar Sailors welcome you to the backend of the project."}`, w.Body.String())
}

func TestNewRouter_NoPrefix(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := newRouter(config.ServerConfig{RoutePrefix: "/"}, logger, pingRoutes{})

	assert.Equal(t, http.StatusTeapot, serve(router, http.MethodGet, "/ping").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health-check").Code)
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := newRouter(config.ServerConfig{RoutePrefix: "/api", CORSOrigins: []string{"*"}}, logger, pingRoutes{})

	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEventProducer_NilStaysNil(t *testing.T) {
	var p messaging.Producer
	assert.Nil(t, eventProducer(p))
}
