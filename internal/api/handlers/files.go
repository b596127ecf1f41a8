package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/gatescope/internal/processing"
	"github.com/RMahshie/gatescope/pkg/models"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// FileHandler handles measurement uploads and registry housekeeping
type FileHandler struct {
	service        processing.PlotService
	maxUploadBytes int64
}

// NewFileHandler creates a new file handler. Uploads larger than
// maxUploadBytes are rejected.
func NewFileHandler(service processing.PlotService, maxUploadBytes int64) *FileHandler {
	return &FileHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Health reports service liveness and the number of loaded files
func (h *FileHandler) Health(ctx context.Context, _ *struct{}) (*models.HealthResponse, error) {
	resp := &models.HealthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Version = Version
	resp.Body.Files = len(h.service.ListFiles(ctx))
	resp.Body.Time = time.Now()
	return resp, nil
}

// UploadFile loads a Touchstone file from the multipart "file" field
func (h *FileHandler) UploadFile(ctx context.Context, req *models.UploadFileRequest) (*models.UploadFileResponse, error) {
	parts := req.RawBody.File["file"]
	if len(parts) == 0 {
		return nil, huma.Error400BadRequest("No file part")
	}
	part := parts[0]
	if part.Filename == "" {
		return nil, huma.Error400BadRequest("No selected file")
	}
	if h.maxUploadBytes > 0 && part.Size > h.maxUploadBytes {
		return nil, huma.NewError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d byte upload limit", h.maxUploadBytes))
	}

	log.Info().Str("filename", part.Filename).Int64("size", part.Size).Msg("Upload received")

	f, err := part.Open()
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to read upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to read upload", err)
	}

	info, err := h.service.Upload(ctx, part.Filename, data)
	if err != nil {
		return nil, toHTTPError(err, "Failed to load measurement")
	}

	return &models.UploadFileResponse{Body: *info}, nil
}

// ListFiles returns every loaded measurement
func (h *FileHandler) ListFiles(ctx context.Context, _ *struct{}) (*models.ListFilesResponse, error) {
	resp := &models.ListFilesResponse{}
	resp.Body.Files = h.service.ListFiles(ctx)
	return resp, nil
}

// Reset unloads all measurements and deletes stored plots
func (h *FileHandler) Reset(ctx context.Context, _ *struct{}) (*models.ResetResponse, error) {
	res, err := h.service.Reset(ctx)
	if err != nil {
		return nil, toHTTPError(err, "Failed to reset")
	}

	resp := &models.ResetResponse{}
	resp.Body.FilesCleared = res.FilesCleared
	resp.Body.PlotsDeleted = res.PlotsDeleted
	resp.Body.Message = "All data has been reset"
	return resp, nil
}
