package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/buyone/internal/api/shared"
	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/service"
)

// multipartOverhead is the room left for form fields and part headers on
// top of the file size limit.
const multipartOverhead = 64 << 10

// MediaHandler serves the /media routes.
type MediaHandler struct {
	media       service.MediaService
	maxFileSize int64
	logger      *slog.Logger
}

// NewMediaHandler creates a MediaHandler. Request bodies larger than
// maxFileSize plus form overhead are rejected with 413.
func NewMediaHandler(media service.MediaService, maxFileSize int64, logger *slog.Logger) *MediaHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for MediaHandler")
	}
	return &MediaHandler{
		media:       media,
		maxFileSize: maxFileSize,
		logger:      logger.With(slog.String("component", "media_handler")),
	}
}

func (h *MediaHandler) toResponse(m *domain.Media) MediaResponse {
	return MediaResponse{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		OwnerType:   string(m.OwnerType),
		Path:        m.Path,
		URL:         h.media.URL(m),
		ContentType: m.ContentType,
		CreatedAt:   m.CreatedAt,
	}
}

// readFile parses the multipart body and returns the "file" part. A missing
// part yields an empty File, which the service rejects as empty.
func (h *MediaHandler) readFile(w http.ResponseWriter, r *http.Request) (service.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxFileSize + multipartOverhead); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, fileTooLargeMessage, err)
			return service.File{}, false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart request", err)
		return service.File{}, false
	}

	part, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return service.File{}, true
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart request", err)
		return service.File{}, false
	}
	defer func() { _ = part.Close() }()

	data, err := io.ReadAll(part)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return service.File{}, false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data)
	}
	return service.File{Data: data, ContentType: contentType}, true
}

// Upload handles POST /media/images (multipart: file, ownerId, ownerType).
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	file, ok := h.readFile(w, r)
	if !ok {
		return
	}

	ownerType, err := domain.ParseOwnerType(r.FormValue("ownerType"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "ownerType must be USER or PRODUCT")
		return
	}

	media, err := h.media.Upload(r.Context(), caller, r.FormValue("ownerId"), ownerType, file)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("media uploaded", slog.String("media_id", media.ID), slog.String("owner_type", string(ownerType)))
	shared.RespondWithSuccess(w, r, http.StatusCreated, "Media uploaded successfully", h.toResponse(media))
}

// Get handles GET /media/images/{mediaId}.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	media, err := h.media.Get(r.Context(), chi.URLParam(r, "mediaId"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Media fetched successfully", h.toResponse(media))
}

// ListByProduct handles GET /media/images/product/{productId}.
func (h *MediaHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	media, err := h.media.ListByProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	images := make([]MediaResponse, 0, len(media))
	for _, m := range media {
		images = append(images, h.toResponse(m))
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Media fetched successfully", MediaListResponse{
		Images: images,
		Count:  len(images),
		Max:    h.media.MaxProductImages(),
	})
}

// Update handles PUT /media/images/{mediaId} (multipart: file).
func (h *MediaHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	file, ok := h.readFile(w, r)
	if !ok {
		return
	}

	media, err := h.media.Update(r.Context(), caller, chi.URLParam(r, "mediaId"), file)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Media updated successfully", h.toResponse(media))
}

// Delete handles DELETE /media/images/{mediaId}.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "mediaId")
	if err := h.media.Delete(r.Context(), caller, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, "Media deleted successfully", MediaDeletedResponse{
		MediaID: id,
		Message: "Deleted successfully",
	})
}

// File handles GET /media/files/* and writes the stored binary.
func (h *MediaHandler) File(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.media.Open(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Debug("failed to write file body", slog.String("error", err.Error()))
	}
}
