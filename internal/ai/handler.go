// FrancescoMazzola | 2026
// handler.go

package ai

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/data-rooms/{id}/ai-queries", func(r chi.Router) {
		r.Get("/", h.ListQueries)
		r.Post("/", h.SubmitQuery)
	})
	r.Get("/ai-queries/{queryID}", h.GetQuery)
}

func (h *Handler) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req SubmitQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	query, err := h.service.Submit(r.Context(), roomID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, ToQueryResponse(query))
}

func (h *Handler) ListQueries(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	queries, err := h.service.ListRoomQueries(r.Context(), roomID, userID, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToQueryResponseList(queries))
}

func (h *Handler) GetQuery(w http.ResponseWriter, r *http.Request) {
	queryID := chi.URLParam(r, "queryID")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	query, err := h.service.GetQuery(r.Context(), queryID, userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToQueryResponse(query))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "permission denied")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "ai query")
	default:
		core.InternalServerError(w, err)
	}
}
