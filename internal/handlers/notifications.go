package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/services"
	"github.com/medigrid/ambudispatch/pkg/response"
)

// NotificationHandler serves each user's notification feed.
type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(db *gorm.DB) (*NotificationHandler, error) {
	service, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	return &NotificationHandler{service: service}, nil
}

// List returns the caller's notifications, newest first.
//
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	rows, err := h.service.ListForUser(requestContext(c), actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, rows, len(rows))
}

// MarkRead marks one of the caller's notifications as read.
//
// POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkRead(requestContext(c), actor.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}
