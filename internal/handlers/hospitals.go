package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/services"
	"github.com/medigrid/ambudispatch/pkg/errors"
	"github.com/medigrid/ambudispatch/pkg/response"
)

// HospitalHandler serves the hospital directory used by the forwarding flow.
type HospitalHandler struct {
	service *services.HospitalService
}

func NewHospitalHandler(db *gorm.DB) (*HospitalHandler, error) {
	service, err := services.NewHospitalService(db)
	if err != nil {
		return nil, err
	}
	return &HospitalHandler{service: service}, nil
}

// List returns active hospitals in a region, ordered by name.
//
// GET /api/hospitals?state=...&district=...
func (h *HospitalHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	state := strings.TrimSpace(c.Query("state"))
	if state == "" {
		response.Error(c, errors.NewBadRequest("state is required"))
		return
	}

	rows, err := h.service.ListByRegion(requestContext(c), actor, state, strings.TrimSpace(c.Query("district")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, rows, len(rows))
}
