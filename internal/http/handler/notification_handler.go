package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/service"
	"go.uber.org/zap"
)

const (
	defaultNotificationPageSize = 20
	maxNotificationPageSize     = repository.MaxPageSize
)

// NotificationHandler serves the feed of project and export events shown to a user
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

type notificationQuery struct {
	page       int
	pageSize   int
	unreadOnly bool
	variant    domain.NotificationVariant
}

func parseNotificationQuery(values url.Values) (notificationQuery, bool) {
	q := notificationQuery{
		page:       queryInt(values, "page", 1),
		pageSize:   queryInt(values, "pageSize", defaultNotificationPageSize),
		unreadOnly: values.Get("unreadOnly") == "true",
		variant:    domain.NotificationVariant(values.Get("variant")),
	}
	if q.pageSize > maxNotificationPageSize {
		q.pageSize = maxNotificationPageSize
	}
	if q.variant != "" && !q.variant.IsValid() {
		return q, false
	}
	return q, true
}

// queryInt returns a positive integer query value, or fallback
func queryInt(values url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// List godoc
// @Summary List notifications
// @Description Paginated notifications of the signed-in user, newest first
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param unreadOnly query bool false "Only unread notifications" default(false)
// @Param variant query string false "Filter by variant" Enums(success, error)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.NotificationDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q, ok := parseNotificationQuery(r.URL.Query())
	if !ok {
		respondJSON(w, http.StatusBadRequest, domain.NewValidationError(map[string]string{
			"variant": "Must be one of: success error",
		}))
		return
	}

	result, err := h.notificationService.List(r.Context(), repository.NotificationFilter{
		UnreadOnly: q.unreadOnly,
		Variant:    string(q.variant),
	}, q.page, q.pageSize)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/count [get]
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.UnreadCount(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, count)
}

// MarkRead godoc
// @Summary Mark notification as read
// @Tags Notifications
// @Param id path string true "Notification ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags Notifications
// @Success 204 "No Content"
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkAllRead(r.Context()); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
