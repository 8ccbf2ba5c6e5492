package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/handlers"
	"github.com/medigrid/ambudispatch/internal/middleware"
	"github.com/medigrid/ambudispatch/internal/models"
)

func registerHospitalRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	handler, err := handlers.NewHospitalHandler(db)
	if err != nil {
		return err
	}

	api.GET("/hospitals", middleware.RequireRole(models.RoleAdmin), handler.List)

	return nil
}
