// FrancescoMazzola | 2026
// handler.go

package notification

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
)

type markReadRequest struct {
	UserID string   `json:"userId" validate:"required,uuid"`
	IDs    []string `json:"ids"    validate:"required,min=1,dive,uuid"`
}

type notificationResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"userId"`
	DataRoomID *string `json:"dataRoomId,omitempty"`
	Type       Type    `json:"type"`
	Title      string  `json:"title"`
	Message    *string `json:"message,omitempty"`
	IsRead     bool    `json:"isRead"`
	CreatedAt  int64   `json:"createdAt"`
}

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
	r.Get("/users/{userID}/notifications", h.ListNotifications)
	r.Post("/notifications/read", h.MarkRead)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.service.ListForUser(r.Context(), userID, unreadOnly)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]notificationResponse, len(notifications))
	for i, n := range notifications {
		out[i] = notificationResponse{
			ID:         n.ID,
			UserID:     n.UserID,
			DataRoomID: n.DataRoomID,
			Type:       n.Type,
			Title:      n.Title,
			Message:    n.Message,
			IsRead:     n.IsRead,
			CreatedAt:  n.CreatedAt,
		}
	}

	core.OK(w, out)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.MarkRead(r.Context(), req.UserID, req.IDs); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]bool{"updated": true})
}
