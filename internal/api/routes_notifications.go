package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/handlers"
)

// Notification routes serve every authenticated role; recipients only ever
// see their own rows.
func registerNotificationRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	handler, err := handlers.NewNotificationHandler(db)
	if err != nil {
		return err
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.POST("/:id/read", handler.MarkRead)
	}

	return nil
}
