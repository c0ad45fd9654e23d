package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/media"
)

// maxUploadBytes bounds the request body. The file is buffered fully in
// memory before the relay, so the bound is what keeps a single request from
// eating the process.
const maxUploadBytes = 10 << 20 // 10 MB

// UploadHandler relays an uploaded image to the media service and returns
// its public URL as JSON. The post editor calls this endpoint and inserts
// the URL into the content.
type UploadHandler struct {
	uploader media.Uploader
	logger   *slog.Logger
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(uploader media.Uploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// uploadResponse is the success payload. `location` is the field name the
// editor widget expects.
type uploadResponse struct {
	Location string `json:"location"`
}

// HandleUpload accepts a multipart request with a single `file` field.
//
// HTTP: POST /upload-image
//
// Responses: 200 {"location": url}, 400 {"error": ...} when the file field
// is missing or the body exceeds the limit, 502 {"error": ...} when the
// media service fails. Each path writes exactly one response and returns.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, apperror.ValidationFailed("file", "file exceeds the 10 MB limit"))
			return
		}
		writeError(w, apperror.ValidationFailed("file", "invalid multipart request"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperror.ValidationFailed("file", "no file uploaded"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("reading upload failed", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("file", "could not read uploaded file"))
		return
	}

	url, err := h.uploader.Upload(r.Context(), data)
	if err != nil {
		h.logger.Error("media upload failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.logger.Info("image uploaded",
		slog.Int("bytes", len(data)),
		slog.String("url", url),
	)
	writeJSON(w, http.StatusOK, uploadResponse{Location: url})
}
