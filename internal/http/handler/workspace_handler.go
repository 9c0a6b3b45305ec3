package handler

import (
	"net/http"

	"github.com/odo-atelier/budget-api/internal/service"
	"go.uber.org/zap"
)

// WorkspaceHandler manages the caller's scratch workspace as a whole
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
	budgetService    *service.BudgetService
	logger           *zap.Logger
}

func NewWorkspaceHandler(workspaceService *service.WorkspaceService, budgetService *service.BudgetService, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		budgetService:    budgetService,
		logger:           logger,
	}
}

// Reset godoc
// @Summary Reset scratch workspace
// @Description Discard every change to the scratch workspace and return its seeded content
// @Tags Workspace
// @Produce json
// @Success 200 {object} store.Snapshot
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /workspace/reset [post]
func (h *WorkspaceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaceService.Reset(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	snap, err := h.budgetService.Snapshot(r.Context(), ws)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}
