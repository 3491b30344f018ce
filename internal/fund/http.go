package fund

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AlgoRMind/algomind-be/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/funds/create", h.CreateFund)
	router.Put("/funds/update/{fund_id}", h.UpdateFund)
	router.Get("/funds/user/{user_id}", h.GetFundsByUser)
}

func (h *Handler) CreateFund(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating fund", "name", req.NameFund, "user_id", req.UserID)
	fund, err := h.service.CreateFund(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithEnvelope(w, http.StatusOK, CreateResponse{FundID: fund.ID})
}

func (h *Handler) UpdateFund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "fund_id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid fund ID")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || h.validate.Struct(&req) != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "updating fund", "fund_id", id)
	if err := h.service.UpdateFund(r.Context(), id, req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithEnvelope(w, http.StatusOK, "Fund updated successfully")
}

func (h *Handler) GetFundsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	funds, err := h.service.ListFundsByUser(r.Context(), userID)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	summaries := make([]Summary, 0, len(funds))
	for i := range funds {
		summaries = append(summaries, funds[i].Summary())
	}

	httputil.RespondWithEnvelope(w, http.StatusOK, summaries)
}
