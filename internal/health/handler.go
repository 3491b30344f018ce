package health

import (
	"net/http"

	"github.com/AlgoRMind/algomind-be/internal/httputil"

	"github.com/go-chi/chi/v5"
)

const welcomeMessage = "Solar Sailors welcome you to the backend of the project."

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health-check", h.Health)
	router.Get("/", h.Home)
}

type HealthResponse struct {
	Status string `json:"status"`
}

type HomeResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, HomeResponse{Message: welcomeMessage})
}
