// FrancescoMazzola | 2026
// handler.go

package dataroom

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/FrancescoMazzola11/secure-insight-room/internal/core"
	"github.com/FrancescoMazzola11/secure-insight-room/internal/document"
)

type Handler struct {
	service   *Service
	documents *document.Service
	validator *validator.Validate
}

func NewHandler(service *Service, documents *document.Service) *Handler {
	return &Handler{
		service:   service,
		documents: documents,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	// all /data-rooms subroutes share the {id} wildcard name; chi rejects
	// mixed names at the same segment
	r.Get("/data-rooms", h.ListAllRooms)
	r.Post("/data-rooms", h.CreateRoom)
	r.Get("/data-rooms/{id}", h.ListUserRooms)
	r.Get("/data-room/{id}", h.GetRoom)
	r.Get("/data-rooms/{id}/watermark", h.GetWatermark)
	r.Put("/data-rooms/{id}/watermark", h.SetWatermark)
	r.Get("/tags", h.ListTags)
	r.Get("/stats", h.Stats)
}

type roomDetailsResponse struct {
	RoomSummary
	Folders []document.FolderResponse `json:"folders"`
	Files   []document.FileResponse   `json:"files"`
}

func (h *Handler) ListUserRooms(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	rooms, err := h.service.ListRoomsForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, rooms)
}

func (h *Handler) ListAllRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListAllRooms(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, rooms)
}

// GetRoom returns the room summary together with its folder tree and active
// files. The optional userId query parameter resolves the caller's role.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")

	room, err := h.service.GetRoom(r.Context(), roomID, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "data room")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	folders, files, err := h.documents.RoomContents(r.Context(), roomID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, roomDetailsResponse{
		RoomSummary: *room,
		Folders:     folders,
		Files:       files,
	})
}

func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	roomID, err := h.service.CreateRoom(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, map[string]string{"id": roomID})
}

func (h *Handler) GetWatermark(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	wm, err := h.service.GetWatermark(r.Context(), roomID, userID)
	if err != nil {
		h.writeServiceError(w, err, "watermark")
		return
	}

	core.OK(w, ToWatermarkResponse(wm))
}

func (h *Handler) SetWatermark(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	var req WatermarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	wm, err := h.service.SetWatermark(r.Context(), roomID, userID, req)
	if err != nil {
		h.writeServiceError(w, err, "data room")
		return
	}

	core.OK(w, ToWatermarkResponse(wm))
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, tags)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) writeServiceError(
	w http.ResponseWriter,
	err error,
	resource string,
) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "permission denied")
	default:
		core.InternalServerError(w, err)
	}
}
