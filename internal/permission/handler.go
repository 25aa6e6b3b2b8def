// FrancescoMazzola | 2026
// handler.go

package permission

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
	r.Route("/data-rooms/{id}/permissions", func(r chi.Router) {
		r.Get("/", h.ListMembers)
		r.Post("/", h.Grant)
		r.Delete("/{userID}", h.Revoke)
	})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	requesterID := r.URL.Query().Get("userId")

	if requesterID == "" {
		core.BadRequest(w, "missing required parameter: userId")
		return
	}

	perms, err := h.service.ListRoomMembers(r.Context(), roomID, requesterID)
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "insufficient permissions to list members")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPermissionResponseList(perms))
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	perm, err := h.service.Grant(r.Context(), roomID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "insufficient permissions to grant access")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, err.Error())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToPermissionResponse(perm))
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	targetUserID := chi.URLParam(r, "userID")
	requesterID := r.URL.Query().Get("userId")

	if requesterID == "" {
		core.BadRequest(w, "missing required parameter: userId")
		return
	}

	err := h.service.Revoke(r.Context(), roomID, targetUserID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "insufficient permissions to revoke access")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "permission")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}
