package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/middleware"
	"github.com/medigrid/ambudispatch/internal/models"
	"github.com/medigrid/ambudispatch/internal/services"
	"github.com/medigrid/ambudispatch/pkg/errors"
	"github.com/medigrid/ambudispatch/pkg/response"
)

// DispatchHandler exposes the ambulance request lifecycle over HTTP.
type DispatchHandler struct {
	service *services.DispatchService
}

// NewDispatchHandler wires the dispatch service and its collaborators.
func NewDispatchHandler(db *gorm.DB) (*DispatchHandler, error) {
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	hospitals, err := services.NewHospitalService(db)
	if err != nil {
		return nil, err
	}
	service, err := services.NewDispatchService(db, notifications, hospitals)
	if err != nil {
		return nil, err
	}
	return &DispatchHandler{service: service}, nil
}

func actorOrAbort(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return models.Actor{}, false
	}
	return actor, true
}

type createRequestPayload struct {
	PickupAddress      string `json:"pickup_address" validate:"required"`
	DestinationAddress string `json:"destination_address" validate:"required"`
	EmergencyType      string `json:"emergency_type" validate:"required"`
	CustomerCondition  string `json:"customer_condition"`
	ContactNumber      string `json:"contact_number" validate:"required"`
	Priority           string `json:"priority" validate:"omitempty,oneof=critical high normal low"`
	Notes              string `json:"notes"`
}

// Create registers a new ambulance request for the calling customer.
//
// POST /api/ambulance/requests
func (h *DispatchHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var payload createRequestPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	created, err := h.service.CreateRequest(requestContext(c), actor, services.CreateRequestInput{
		PickupAddress:      payload.PickupAddress,
		DestinationAddress: payload.DestinationAddress,
		EmergencyType:      payload.EmergencyType,
		CustomerCondition:  payload.CustomerCondition,
		ContactNumber:      payload.ContactNumber,
		Priority:           payload.Priority,
		Notes:              payload.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": created.ID})
}

// List returns the staff/admin dispatch queue.
//
// GET /api/ambulance/requests?unread_only=true
func (h *DispatchHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	rows, err := h.service.ListRequests(requestContext(c), actor, boolQuery(c, "unread_only"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, rows, len(rows))
}

// ListMine returns the calling customer's requests.
//
// GET /api/ambulance/requests/mine
func (h *DispatchHandler) ListMine(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	rows, err := h.service.ListOwnRequests(requestContext(c), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, rows, len(rows))
}

// Assign binds a pending request to the calling staff actor.
//
// POST /api/ambulance/requests/:id/assign
func (h *DispatchHandler) Assign(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	if err := h.service.AssignSelf(requestContext(c), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assigned": true})
}

type updateStatusPayload struct {
	Status string  `json:"status" validate:"required,oneof=assigned on_the_way completed cancelled"`
	Notes  *string `json:"notes"`
}

// UpdateStatus moves a request along the tracked lifecycle.
//
// PUT /api/ambulance/requests/:id/status
func (h *DispatchHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var payload updateStatusPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	err := h.service.UpdateStatus(requestContext(c), actor, c.Param("id"), services.UpdateStatusInput{
		Status: payload.Status,
		Notes:  payload.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

type adminUpdatePayload struct {
	Status          string  `json:"status" validate:"required"`
	AssignedStaffID *string `json:"assigned_staff_id"`
	Notes           string  `json:"notes"`
}

// AdminUpdate is the administrative override path.
//
// PUT /api/ambulance/requests/:id
func (h *DispatchHandler) AdminUpdate(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var payload adminUpdatePayload
	if !bindAndValidate(c, &payload) {
		return
	}

	err := h.service.AdminUpdate(requestContext(c), actor, c.Param("id"), services.AdminUpdateInput{
		Status:          payload.Status,
		AssignedStaffID: payload.AssignedStaffID,
		Notes:           payload.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

type forwardPayload struct {
	HospitalID string `json:"hospital_id" validate:"required"`
}

// Forward hands a request to a hospital for acceptance.
//
// POST /api/ambulance/requests/:id/forward
func (h *DispatchHandler) Forward(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var payload forwardPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	if err := h.service.ForwardToHospital(requestContext(c), actor, c.Param("id"), payload.HospitalID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"forwarded": true})
}

// MarkRead flags a request as seen in the admin queue.
//
// POST /api/ambulance/requests/:id/read
func (h *DispatchHandler) MarkRead(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	if err := h.service.MarkRead(requestContext(c), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true})
}

type respondPayload struct {
	Response string `json:"response" validate:"required,oneof=accepted rejected"`
	Notes    string `json:"notes"`
}

// Respond records a hospital's decision on a forwarded request.
//
// POST /api/ambulance/requests/:id/respond
func (h *DispatchHandler) Respond(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var payload respondPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	err := h.service.HospitalRespond(requestContext(c), actor, c.Param("id"), services.HospitalRespondInput{
		Response: payload.Response,
		Notes:    strings.TrimSpace(payload.Notes),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"responded": true})
}

// ListForwarded returns requests forwarded to the calling hospital.
//
// GET /api/ambulance/requests/forwarded
func (h *DispatchHandler) ListForwarded(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	rows, err := h.service.ListForwardedRequests(requestContext(c), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, rows, len(rows))
}
