package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/budget"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/export"
	"github.com/odo-atelier/budget-api/internal/mapper"
	"github.com/odo-atelier/budget-api/internal/metrics"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/storage"
	"github.com/odo-atelier/budget-api/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExportService renders budgets as files and archives them in blob storage
type ExportService struct {
	projects   *ProjectService
	exportRepo *repository.ExportFileRepository
	storage    storage.Storage
	logger     *zap.Logger
}

// NewExportService creates a new ExportService instance
func NewExportService(
	projects *ProjectService,
	exportRepo *repository.ExportFileRepository,
	fileStorage storage.Storage,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		projects:   projects,
		exportRepo: exportRepo,
		storage:    fileStorage,
		logger:     logger,
	}
}

// CSV renders a workspace as the budget spreadsheet text and names the file after it
func (s *ExportService) CSV(ctx context.Context, ws *store.Workspace) ([]byte, string, error) {
	return s.Render(ctx, ws, domain.ExportFormatCSV)
}

// XLSX renders a workspace as an Excel workbook
func (s *ExportService) XLSX(ctx context.Context, ws *store.Workspace) ([]byte, string, error) {
	return s.Render(ctx, ws, domain.ExportFormatXLSX)
}

// Render produces the export file of a workspace in the given format
func (s *ExportService) Render(ctx context.Context, ws *store.Workspace, format domain.ExportFormat) ([]byte, string, error) {
	if !format.IsValid() {
		return nil, "", fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
	}

	snap, err := store.Load(ctx, ws.Store)
	if err != nil {
		return nil, "", err
	}

	var data []byte
	switch format {
	case domain.ExportFormatXLSX:
		data, err = export.XLSX(snap)
	default:
		data, err = export.CSV(snap)
	}
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(string(format), metrics.OutcomeFailure).Inc()
		return nil, "", err
	}

	metrics.ExportsTotal.WithLabelValues(string(format), metrics.OutcomeSuccess).Inc()
	return data, budget.FileName(ws.Name, string(format)), nil
}

// Archive renders a project budget and stores the file for later download
func (s *ExportService) Archive(ctx context.Context, projectID uuid.UUID, format domain.ExportFormat) (*domain.ExportFileDTO, error) {
	ws, err := s.projects.Workspace(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.archive(ctx, ws, format)
}

func (s *ExportService) archive(ctx context.Context, ws *store.Workspace, format domain.ExportFormat) (*domain.ExportFileDTO, error) {
	data, filename, err := s.Render(ctx, ws, format)
	if err != nil {
		return nil, err
	}

	projectID := *ws.ID
	key := fmt.Sprintf("exports/%s/%s_%s", projectID, time.Now().UTC().Format("20060102T150405Z"), filename)
	obj, err := s.storage.Put(ctx, key, format.ContentType(), data)
	if err != nil {
		s.logger.Error("failed to upload export", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	file := &domain.ExportFile{
		ProjectID:   projectID,
		Format:      string(format),
		Filename:    filename,
		ContentType: format.ContentType(),
		Size:        obj.Size,
		StoragePath: obj.Key,
	}
	if userCtx, ok := auth.FromContext(ctx); ok && !userCtx.IsSystem() {
		userID := userCtx.UserID
		file.CreatedByID = &userID
	}

	if err := s.exportRepo.Create(ctx, file); err != nil {
		// Do not leave an orphaned blob behind
		if delErr := s.storage.Remove(ctx, obj.Key); delErr != nil {
			s.logger.Warn("failed to remove orphaned export", zap.String("key", obj.Key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record export: %w", err)
	}

	s.logger.Info("export archived",
		zap.String("project_id", projectID.String()),
		zap.String("format", string(format)),
		zap.Int64("size", obj.Size),
	)

	dto := mapper.ToExportFileDTO(file)
	return &dto, nil
}

// ListArchives returns the archived exports of a project, newest first
func (s *ExportService) ListArchives(ctx context.Context, projectID uuid.UUID) ([]domain.ExportFileDTO, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	files, err := s.exportRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	dtos := make([]domain.ExportFileDTO, len(files))
	for i := range files {
		dtos[i] = mapper.ToExportFileDTO(&files[i])
	}
	return dtos, nil
}

// DownloadArchive opens an archived export. The caller closes the reader.
func (s *ExportService) DownloadArchive(ctx context.Context, projectID, exportID uuid.UUID) (io.ReadCloser, *domain.ExportFileDTO, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, nil, err
	}

	file, err := s.exportRepo.GetByID(ctx, exportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrExportNotFound
		}
		return nil, nil, fmt.Errorf("failed to get export: %w", err)
	}
	if file.ProjectID != projectID {
		return nil, nil, ErrExportNotFound
	}

	rc, err := s.storage.Open(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrExportNotFound
		}
		return nil, nil, fmt.Errorf("failed to download export: %w", err)
	}

	dto := mapper.ToExportFileDTO(file)
	return rc, &dto, nil
}

// ArchiveAll stores a CSV export of every project. A failing project does not stop the run.
func (s *ExportService) ArchiveAll(ctx context.Context) (int, error) {
	projects, err := s.projects.All(ctx)
	if err != nil {
		return 0, err
	}

	archived := 0
	var errs []error
	for i := range projects {
		project := &projects[i]
		if err := s.archiveProject(ctx, project); err != nil {
			s.logger.Warn("skipping project in export archive run",
				zap.String("project_id", project.ID.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("project %s: %w", project.ID, err))
			continue
		}
		archived++
	}
	return archived, errors.Join(errs...)
}

func (s *ExportService) archiveProject(ctx context.Context, project *domain.Project) error {
	ws, err := s.projects.OpenWorkspace(ctx, project)
	if err != nil {
		return err
	}
	_, err = s.archive(ctx, ws, domain.ExportFormatCSV)
	return err
}
