// FrancescoMazzola | 2026
// handler.go

package document

import (
	"encoding/json"
	"errors"
	"net"
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
	r.Post("/data-rooms/{id}/files", h.UploadFile)
	r.Post("/data-rooms/{id}/folders", h.CreateFolder)
	r.Put("/files/{fileID}", h.RenameFile)
	r.Delete("/files/{fileID}", h.DeleteFile)
	r.Get("/files/{fileID}/view", h.ViewFile)
	r.Get("/files/{fileID}/download", h.DownloadFile)
	r.Get("/files/{fileID}/logs", h.FileLogs)
	r.Put("/folders/{folderID}", h.RenameFolder)
	r.Delete("/folders/{folderID}", h.DeleteFolder)
}

func requestMeta(r *http.Request) RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return RequestMeta{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req UploadFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	file, err := h.service.UploadFile(r.Context(), roomID, req, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err, "data room")
		return
	}

	core.OK(w, map[string]any{
		"id":   file.ID,
		"file": ToFileResponse(file),
	})
}

func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	folder, err := h.service.CreateFolder(r.Context(), roomID, req)
	if err != nil {
		h.writeServiceError(w, err, "data room")
		return
	}

	core.OK(w, map[string]any{
		"id":     folder.ID,
		"folder": ToFolderResponse(folder),
	})
}

func (h *Handler) RenameFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	file, err := h.service.RenameFile(r.Context(), fileID, req)
	if err != nil {
		h.writeServiceError(w, err, "file")
		return
	}

	core.OK(w, ToFileResponse(file))
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	err := h.service.DeleteFile(r.Context(), fileID, userID, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err, "file")
		return
	}

	core.OK(w, map[string]bool{"deleted": true})
}

func (h *Handler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	folder, err := h.service.RenameFolder(r.Context(), folderID, req)
	if err != nil {
		h.writeServiceError(w, err, "folder")
		return
	}

	core.OK(w, ToFolderResponse(folder))
}

func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "folderID")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	err := h.service.DeleteFolder(r.Context(), folderID, userID, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err, "folder")
		return
	}

	core.OK(w, map[string]bool{"deleted": true})
}

func (h *Handler) ViewFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	preview, err := h.service.ViewFile(r.Context(), fileID, userID, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err, "file")
		return
	}

	core.OK(w, preview)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	file, err := h.service.DownloadFile(r.Context(), fileID, userID, requestMeta(r))
	if err != nil {
		h.writeServiceError(w, err, "file")
		return
	}

	core.OK(w, ToFileResponse(file))
}

func (h *Handler) FileLogs(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		core.BadRequest(w, "userId query parameter is required")
		return
	}

	entries, err := h.service.FileLogs(r.Context(), fileID, userID)
	if err != nil {
		h.writeServiceError(w, err, "file")
		return
	}

	core.OK(w, ToAccessLogResponseList(entries))
}

func (h *Handler) writeServiceError(
	w http.ResponseWriter,
	err error,
	resource string,
) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "permission denied")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	default:
		core.InternalServerError(w, err)
	}
}
