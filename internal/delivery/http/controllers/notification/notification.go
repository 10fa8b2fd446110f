package notification

import (
	"Mumkin/internal/delivery/http/controllers/middleware"
	"Mumkin/internal/delivery/http/controllers/response"
	"Mumkin/internal/models"
	"Mumkin/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationService interface {
	ForUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
}

type NotificationHandler struct {
	log     logger.Log
	service NotificationService
}

func NewNotificationHandler(l logger.Log, s NotificationService) *NotificationHandler {
	return &NotificationHandler{log: l, service: s}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	items, err := h.service.ForUser(c.Request.Context(), user.UID)
	if err != nil {
		response.Error(c, err)
		return
	}
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "unread": unread})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	n, err := h.service.MarkAllRead(c.Request.Context(), user.UID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
