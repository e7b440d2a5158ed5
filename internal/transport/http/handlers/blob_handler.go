package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/service"
	"github.com/vedran77/devfolio/internal/walrus"
)

// BlobHandler uploads images to Walrus. The request body is the raw image.
type BlobHandler struct {
	mediaService *service.MediaService
	logger       *zap.Logger
}

func NewBlobHandler(mediaService *service.MediaService, logger *zap.Logger) *BlobHandler {
	return &BlobHandler{mediaService: mediaService, logger: logger}
}

func (h *BlobHandler) Upload(w http.ResponseWriter, r *http.Request) {
	blob, err := h.mediaService.Upload(r.Context(), r.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUpload):
			writeError(w, http.StatusBadRequest, "EMPTY_UPLOAD", "Upload is empty")
		case errors.Is(err, service.ErrUploadTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "Image is too large")
		case errors.Is(err, service.ErrNotAnImage):
			writeError(w, http.StatusUnsupportedMediaType, "NOT_AN_IMAGE", "Only images can be uploaded")
		case errors.Is(err, walrus.ErrUploadsDisabled):
			writeError(w, http.StatusServiceUnavailable, "UPLOADS_DISABLED", "Uploads are not available on this network")
		default:
			writeUpstreamError(w, h.logger, "upload blob", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, blob)
}
