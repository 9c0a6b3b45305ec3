package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/store"
	"go.uber.org/zap"
)

// WorkspaceResolver finds the budget a request operates on
type WorkspaceResolver func(r *http.Request) (*store.Workspace, error)

// ProjectWorkspace resolves the persisted project named by the projectID path parameter
func ProjectWorkspace(projects *service.ProjectService) WorkspaceResolver {
	return func(r *http.Request) (*store.Workspace, error) {
		id, err := parseUUID(chi.URLParam(r, "projectID"))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid project ID", service.ErrInvalidInput)
		}
		return projects.Workspace(r.Context(), id)
	}
}

// ScratchWorkspace resolves the caller's in-memory workspace
func ScratchWorkspace(workspaces *service.WorkspaceService) WorkspaceResolver {
	return func(r *http.Request) (*store.Workspace, error) {
		return workspaces.Scratch(r.Context())
	}
}

// BudgetHandler serves item, configuration, pricing and export routes of one kind of workspace
type BudgetHandler struct {
	budgetService *service.BudgetService
	exportService *service.ExportService
	resolve       WorkspaceResolver
	logger        *zap.Logger
}

func NewBudgetHandler(
	budgetService *service.BudgetService,
	exportService *service.ExportService,
	resolve WorkspaceResolver,
	logger *zap.Logger,
) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		exportService: exportService,
		resolve:       resolve,
		logger:        logger,
	}
}

// Routes mounts the budget routes on r
func (h *BudgetHandler) Routes(r chi.Router) {
	r.Get("/items/{category}", h.ListItems)
	r.Post("/items/{category}", h.AddItem)
	r.Patch("/items/{category}/{itemID}", h.UpdateItem)
	r.Delete("/items/{category}/{itemID}", h.RemoveItem)
	r.Get("/config", h.GetConfig)
	r.Patch("/config", h.UpdateConfig)
	r.Get("/summary", h.Summary)
	r.Get("/suppliers", h.Suppliers)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/export.xlsx", h.ExportXLSX)
}

func (h *BudgetHandler) workspace(w http.ResponseWriter, r *http.Request) (*store.Workspace, bool) {
	ws, err := h.resolve(r)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return nil, false
	}
	return ws, true
}

func (h *BudgetHandler) category(w http.ResponseWriter, r *http.Request) (domain.Category, bool) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return "", false
	}
	return category, true
}

// ListItems godoc
// @Summary List items
// @Description List the items of a category with their computed subtotal, tax and final cost
// @Tags Budget
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param category path string true "Item category" Enums(materials, machines, production)
// @Success 200 {array} budget.PricedItem
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/items/{category} [get]
func (h *BudgetHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	items, err := h.budgetService.ListItems(r.Context(), ws, category)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// AddItem godoc
// @Summary Add item
// @Description Append a blank item to a category, taxed at the default rate
// @Tags Budget
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param category path string true "Item category" Enums(materials, machines, production)
// @Success 201 {object} budget.PricedItem
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/items/{category} [post]
func (h *BudgetHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	item, err := h.budgetService.AddItem(r.Context(), ws, category)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Update item field
// @Description Set one field of an item. Numeric fields accept numbers or numeric text; anything unparseable is stored as 0.
// @Tags Budget
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param category path string true "Item category" Enums(materials, machines, production)
// @Param itemID path string true "Item ID"
// @Param request body domain.UpdateItemRequest true "Field and value"
// @Success 200 {object} budget.PricedItem
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/items/{category}/{itemID} [patch]
func (h *BudgetHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}

	var req domain.UpdateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	item, err := h.budgetService.UpdateItem(r.Context(), ws, category, chi.URLParam(r, "itemID"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// RemoveItem godoc
// @Summary Remove item
// @Tags Budget
// @Param projectID path string true "Project ID" format(uuid)
// @Param category path string true "Item category" Enums(materials, machines, production)
// @Param itemID path string true "Item ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/items/{category}/{itemID} [delete]
func (h *BudgetHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	category, ok := h.category(w, r)
	if !ok {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	if err := h.budgetService.RemoveItem(r.Context(), ws, category, chi.URLParam(r, "itemID")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConfig godoc
// @Summary Get budget configuration
// @Tags Budget
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} domain.BudgetConfig
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/config [get]
func (h *BudgetHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	cfg, err := h.budgetService.GetConfig(r.Context(), ws)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// UpdateConfig godoc
// @Summary Update budget configuration
// @Description Change any subset of the configuration values. Monthly volume must stay above zero.
// @Tags Budget
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param request body domain.UpdateConfigRequest true "Configuration changes"
// @Success 200 {object} domain.BudgetConfig
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/config [patch]
func (h *BudgetHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateConfigRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	cfg, err := h.budgetService.UpdateConfig(r.Context(), ws, req.Patch())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVolume) {
			respondJSON(w, http.StatusBadRequest, domain.NewValidationError(map[string]string{
				"monthlyVolume": "Must be greater than 0",
			}))
			return
		}
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// Summary godoc
// @Summary Budget summary
// @Description Category totals, per-piece costs and suggested prices
// @Tags Budget
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} budget.Summary
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Monthly volume is zero"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/summary [get]
func (h *BudgetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	summary, err := h.budgetService.Summary(r.Context(), ws)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Suppliers godoc
// @Summary Materials by supplier
// @Tags Budget
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} budget.SupplierView
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/suppliers [get]
func (h *BudgetHandler) Suppliers(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	view, err := h.budgetService.Suppliers(r.Context(), ws)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ExportCSV godoc
// @Summary Export budget as CSV
// @Tags Budget
// @Produce text/csv
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {file} file
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Monthly volume is zero"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/export.csv [get]
func (h *BudgetHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, domain.ExportFormatCSV)
}

// ExportXLSX godoc
// @Summary Export budget as Excel workbook
// @Tags Budget
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {file} file
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError "Monthly volume is zero"
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /projects/{projectID}/export.xlsx [get]
func (h *BudgetHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, domain.ExportFormatXLSX)
}

func (h *BudgetHandler) export(w http.ResponseWriter, r *http.Request, format domain.ExportFormat) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	data, filename, err := h.exportService.Render(r.Context(), ws, format)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondFile(w, format.ContentType(), filename, data)
}
