package mapper

import (
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

// ToProjectDTO converts Project to ProjectDTO
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	return domain.ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Config:      project.Config,
		CreatedAt:   project.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:   project.UpdatedAt.UTC().Format(timestampLayout),
	}
}

// ToProjectDTOs converts a list of projects
func ToProjectDTOs(projects []domain.Project) []domain.ProjectDTO {
	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = ToProjectDTO(&projects[i])
	}
	return dtos
}

// ToNotificationDTO converts Notification to NotificationDTO
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:         notification.ID,
		Variant:    notification.Variant,
		Title:      notification.Title,
		Message:    notification.Message,
		Read:       notification.Read,
		CreatedAt:  notification.CreatedAt.UTC().Format(timestampLayout),
		EntityID:   notification.EntityID,
		EntityType: notification.EntityType,
	}
}

// ToExportFileDTO converts ExportFile to ExportFileDTO
func ToExportFileDTO(file *domain.ExportFile) domain.ExportFileDTO {
	return domain.ExportFileDTO{
		ID:          file.ID,
		ProjectID:   file.ProjectID,
		Format:      file.Format,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		CreatedAt:   file.CreatedAt.UTC().Format(timestampLayout),
	}
}

// ToAuthUserDTO converts the authenticated caller to AuthUserDTO
func ToAuthUserDTO(user *auth.UserContext) domain.AuthUserDTO {
	name := user.DisplayName
	if name == "" {
		name = user.Email
	}
	return domain.AuthUserDTO{
		ID:       user.UserID.String(),
		Name:     name,
		Email:    user.Email,
		Initials: user.Initials(),
	}
}
