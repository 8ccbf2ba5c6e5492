package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/handlers"
	"github.com/medigrid/ambudispatch/internal/middleware"
	"github.com/medigrid/ambudispatch/internal/models"
)

// registerAmbulanceRoutes mounts the request lifecycle endpoints. Each route
// carries the single role or role pair allowed to call it; the service layer
// re-checks ownership underneath.
func registerAmbulanceRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	handler, err := handlers.NewDispatchHandler(db)
	if err != nil {
		return err
	}

	requests := api.Group("/ambulance/requests")
	{
		requests.POST("", middleware.RequireRole(models.RoleCustomer), handler.Create)
		requests.GET("", middleware.RequireRole(models.RoleStaff, models.RoleAdmin), handler.List)
		requests.GET("/mine", middleware.RequireRole(models.RoleCustomer), handler.ListMine)
		requests.GET("/forwarded", middleware.RequireRole(models.RoleHospital), handler.ListForwarded)

		requests.PUT("/:id", middleware.RequireRole(models.RoleStaff, models.RoleAdmin), handler.AdminUpdate)
		requests.POST("/:id/assign", middleware.RequireRole(models.RoleStaff), handler.Assign)
		requests.PUT("/:id/status", middleware.RequireRole(models.RoleStaff, models.RoleAdmin), handler.UpdateStatus)
		requests.POST("/:id/forward", middleware.RequireRole(models.RoleAdmin), handler.Forward)
		requests.POST("/:id/read", middleware.RequireRole(models.RoleAdmin), handler.MarkRead)
		requests.POST("/:id/respond", middleware.RequireRole(models.RoleHospital), handler.Respond)
	}

	return nil
}
