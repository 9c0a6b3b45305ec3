package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/mapper"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Project notices
const (
	msgProjectCreated      = "Projeto criado com sucesso"
	msgProjectDeleted      = "Projeto excluído"
	msgProjectCreateFailed = "Erro ao criar projeto"
	msgProjectDeleteFailed = "Erro ao excluir projeto"
	msgProjectsLoadFailed  = "Erro ao carregar projetos"
)

// ProjectService handles business logic for budget projects.
// A user always has exactly one current project: the most recently updated one.
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	remote      *store.RemoteBackend
	notifier    store.Notifier
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService instance
func NewProjectService(
	projectRepo *repository.ProjectRepository,
	remote *store.RemoteBackend,
	notifier store.Notifier,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		remote:      remote,
		notifier:    notifier,
		logger:      logger,
	}
}

// List returns the caller's projects, most recently updated first.
// A first project is created when the user has none.
func (s *ProjectService) List(ctx context.Context) ([]domain.ProjectDTO, error) {
	projects, err := s.listOrCreate(ctx, domain.DefaultProjectName)
	if err != nil {
		return nil, err
	}
	return mapper.ToProjectDTOs(projects), nil
}

// Current returns the project the caller is working on
func (s *ProjectService) Current(ctx context.Context) (*domain.ProjectDTO, error) {
	projects, err := s.listOrCreate(ctx, domain.DefaultProjectName)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToProjectDTO(&projects[0])
	return &dto, nil
}

// Create adds a project with the default configuration; it becomes current
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	project, err := s.create(ctx, userCtx.UserID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	notice := store.SuccessNotice(msgProjectCreated)
	notice.EntityType = "project"
	notice.EntityID = &project.ID
	s.notifier.Notify(ctx, notice)

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// Get returns one of the caller's projects
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// Update renames a project and changes its description
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	if err := s.projectRepo.UpdateDetails(ctx, id, req.Name, req.Description); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("failed to update project", zap.String("project_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.Get(ctx, id)
}

// Select makes a project current
func (s *ProjectService) Select(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	if err := s.projectRepo.Touch(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to select project: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a project with its items and returns the project that is current afterwards.
// Deleting the last project creates a replacement.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) (*domain.ProjectDeletedDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, ErrUserContextRequired
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("failed to delete project", zap.String("project_id", id.String()), zap.Error(err))
		s.notifier.Notify(ctx, store.ErrorNotice(msgProjectDeleteFailed))
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted", zap.String("project_id", id.String()))
	s.notifier.Notify(ctx, store.SuccessNotice(msgProjectDeleted))

	remaining, err := s.listOrCreate(ctx, domain.ReplacementProjectName)
	if err != nil {
		return nil, err
	}
	return &domain.ProjectDeletedDTO{
		DeletedID: id,
		Current:   mapper.ToProjectDTO(&remaining[0]),
	}, nil
}

// Workspace opens the budget of one of the caller's projects
func (s *ProjectService) Workspace(ctx context.Context, id uuid.UUID) (*store.Workspace, error) {
	project, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.OpenWorkspace(ctx, project)
}

// All returns every project; used by background jobs with a system context
func (s *ProjectService) All(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// OpenWorkspace loads the budget of an already fetched project
func (s *ProjectService) OpenWorkspace(ctx context.Context, project *domain.Project) (*store.Workspace, error) {
	remote, err := s.remote.Open(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to open project %s: %w", project.ID, err)
	}
	return &store.Workspace{ID: &project.ID, Name: project.Name, Store: remote}, nil
}

func (s *ProjectService) getOwned(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) listOrCreate(ctx context.Context, fallbackName string) ([]domain.Project, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	projects, err := s.projectRepo.ListByUser(ctx, userCtx.UserID)
	if err != nil {
		s.logger.Error("failed to list projects", zap.String("user_id", userCtx.UserID.String()), zap.Error(err))
		s.notifier.Notify(ctx, store.ErrorNotice(msgProjectsLoadFailed))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) > 0 {
		return projects, nil
	}

	project, err := s.create(ctx, userCtx.UserID, fallbackName, "")
	if err != nil {
		return nil, err
	}
	return []domain.Project{*project}, nil
}

func (s *ProjectService) create(ctx context.Context, userID uuid.UUID, name, description string) (*domain.Project, error) {
	project := &domain.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
		Config:      domain.DefaultBudgetConfig(),
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		s.logger.Error("failed to create project", zap.String("user_id", userID.String()), zap.Error(err))
		s.notifier.Notify(ctx, store.ErrorNotice(msgProjectCreateFailed))
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("name", project.Name),
	)
	return project, nil
}
