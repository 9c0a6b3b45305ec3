package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/service"
	"go.uber.org/zap"
)

// ExportHandler serves archived exports of persisted projects
type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// List godoc
// @Summary List archived exports
// @Tags Exports
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {array} domain.ExportFileDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/exports [get]
func (h *ExportHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "projectID", "project")
	if !ok {
		return
	}

	files, err := h.exportService.ListArchives(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, files)
}

// Create godoc
// @Summary Archive an export
// @Description Render the project budget and keep the file in storage
// @Tags Exports
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param request body domain.CreateExportRequest true "Export format"
// @Success 201 {object} domain.ExportFileDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Monthly volume is zero"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/exports [post]
func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "projectID", "project")
	if !ok {
		return
	}

	var req domain.CreateExportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	file, err := h.exportService.Archive(r.Context(), projectID, req.Format)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, file)
}

// Download godoc
// @Summary Download an archived export
// @Tags Exports
// @Produce octet-stream
// @Param projectID path string true "Project ID" format(uuid)
// @Param exportID path string true "Export ID" format(uuid)
// @Success 200 {file} file
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/exports/{exportID}/download [get]
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseUUIDParam(w, r, "projectID", "project")
	if !ok {
		return
	}
	exportID, ok := parseUUIDParam(w, r, "exportID", "export")
	if !ok {
		return
	}

	rc, file, err := h.exportService.DownloadArchive(r.Context(), projectID, exportID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", attachment(file.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("export download interrupted", zap.String("export_id", exportID.String()), zap.Error(err))
	}
}
