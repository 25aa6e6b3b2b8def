// FrancescoMazzola | 2026
// handler.go

package sharing

import (
	"encoding/json"
	"errors"
	"net/http"

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
	r.Route("/data-rooms/{id}/shared-links", func(r chi.Router) {
		r.Get("/", h.ListLinks)
		r.Post("/", h.CreateLink)
		r.Delete("/{linkID}", h.RevokeLink)
	})
	r.Post("/shared-links/redeem", h.Redeem)
}

func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.CreateLink(r.Context(), roomID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.Created(w, resp)
}

func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	links, err := h.service.ListRoomLinks(r.Context(), roomID, userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, ToLinkResponseList(links))
}

func (h *Handler) RevokeLink(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	linkID := chi.URLParam(r, "linkID")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	if err := h.service.RevokeLink(r.Context(), roomID, linkID, userID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, map[string]bool{"revoked": true})
}

func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Redeem(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "permission denied")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "shared link")
	default:
		core.InternalServerError(w, err)
	}
}
