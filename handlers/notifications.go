package handlers

import (
	"net/http"

	"hr_flow_app_go/middleware"
	"hr_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes in-app notifications over HTTP
type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// ListUnread handles GET /notifications
func (h *NotificationHandler) ListUnread(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	notifications, err := h.Service.GetUnreadNotifications(user.CompanyID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load notifications")
	}

	count, err := h.Service.GetNotificationCount(user.CompanyID, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  count,
	})
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if err := h.Service.MarkAsRead(c.Param("id"), user.ID, user.CompanyID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification as read")
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if err := h.Service.MarkAllAsRead(user.CompanyID, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notifications as read")
	}

	return c.NoContent(http.StatusNoContent)
}
