package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/database/testutil"
	"github.com/medigrid/ambudispatch/internal/middleware"
	"github.com/medigrid/ambudispatch/internal/models"
	"github.com/medigrid/ambudispatch/internal/services"
	"github.com/medigrid/ambudispatch/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandlerContext(t *testing.T, method, target string, body any, actor *models.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	if actor != nil {
		c.Set(middleware.CtxUserIDKey, actor.UserID)
		c.Set(middleware.CtxRoleKey, actor.Role)
	}

	return c, recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var payload response.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func seedHandlerUser(t *testing.T, db *gorm.DB, role models.Role, email string) models.User {
	t.Helper()

	user := models.User{
		Name:     "Test " + string(role),
		Email:    email,
		Password: "not-a-real-hash",
		Role:     role,
		State:    "Central",
		District: "North",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestDispatchHandlerCreateAndListMine(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewDispatchHandler(db)
	require.NoError(t, err)

	customer := seedHandlerUser(t, db, models.RoleCustomer, "rider@example.com")
	actor := models.Actor{UserID: customer.ID, Role: models.RoleCustomer}

	c, recorder := newHandlerContext(t, http.MethodPost, "/api/ambulance/requests", gin.H{
		"pickup_address":      "12 Lake Road",
		"destination_address": "City General",
		"emergency_type":      "cardiac",
		"contact_number":      "555-0100",
		"priority":            "high",
	}, &actor)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, recorder.Code)
	payload := decodeResponse(t, recorder)
	require.True(t, payload.Success)

	var stored models.AmbulanceRequest
	require.NoError(t, db.First(&stored, "customer_user_id = ?", customer.ID).Error)
	require.Equal(t, models.StatusPending, stored.Status)
	require.Equal(t, models.PriorityHigh, stored.Priority)

	listCtx, listRecorder := newHandlerContext(t, http.MethodGet, "/api/ambulance/requests/mine", nil, &actor)
	handler.ListMine(listCtx)

	require.Equal(t, http.StatusOK, listRecorder.Code)
	listPayload := decodeResponse(t, listRecorder)
	require.True(t, listPayload.Success)
	require.NotNil(t, listPayload.Meta)
	require.Equal(t, 1, listPayload.Meta.Total)
}

func TestDispatchHandlerCreateRejectsMissingFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewDispatchHandler(db)
	require.NoError(t, err)

	customer := seedHandlerUser(t, db, models.RoleCustomer, "rider@example.com")
	actor := models.Actor{UserID: customer.ID, Role: models.RoleCustomer}

	c, recorder := newHandlerContext(t, http.MethodPost, "/api/ambulance/requests", gin.H{
		"pickup_address": "12 Lake Road",
	}, &actor)
	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	payload := decodeResponse(t, recorder)
	require.False(t, payload.Success)
	require.NotNil(t, payload.Error)

	var count int64
	require.NoError(t, db.Model(&models.AmbulanceRequest{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestDispatchHandlerAssignAndStatus(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewDispatchHandler(db)
	require.NoError(t, err)

	customer := seedHandlerUser(t, db, models.RoleCustomer, "rider@example.com")
	staff := seedHandlerUser(t, db, models.RoleStaff, "medic@example.com")

	created, err := handler.service.CreateRequest(context.Background(),
		models.Actor{UserID: customer.ID, Role: models.RoleCustomer},
		services.CreateRequestInput{
			PickupAddress:      "12 Lake Road",
			DestinationAddress: "City General",
			EmergencyType:      "cardiac",
			ContactNumber:      "555-0100",
		})
	require.NoError(t, err)

	staffActor := models.Actor{UserID: staff.ID, Role: models.RoleStaff}

	assignCtx, assignRecorder := newHandlerContext(t, http.MethodPost, "/api/ambulance/requests/"+created.ID+"/assign", nil, &staffActor)
	assignCtx.Params = gin.Params{gin.Param{Key: "id", Value: created.ID}}
	handler.Assign(assignCtx)
	require.Equal(t, http.StatusOK, assignRecorder.Code)

	statusCtx, statusRecorder := newHandlerContext(t, http.MethodPut, "/api/ambulance/requests/"+created.ID+"/status", gin.H{
		"status": "on_the_way",
		"notes":  "five minutes out",
	}, &staffActor)
	statusCtx.Params = gin.Params{gin.Param{Key: "id", Value: created.ID}}
	handler.UpdateStatus(statusCtx)
	require.Equal(t, http.StatusOK, statusRecorder.Code)

	var stored models.AmbulanceRequest
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.Equal(t, models.StatusOnTheWay, stored.Status)
	require.NotNil(t, stored.AssignedStaffID)
	require.Equal(t, staff.ID, *stored.AssignedStaffID)
	require.Equal(t, "five minutes out", stored.Notes)
}

func TestDispatchHandlerUpdateStatusRejectsUnknownValue(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewDispatchHandler(db)
	require.NoError(t, err)

	staff := seedHandlerUser(t, db, models.RoleStaff, "medic@example.com")
	staffActor := models.Actor{UserID: staff.ID, Role: models.RoleStaff}

	c, recorder := newHandlerContext(t, http.MethodPut, "/api/ambulance/requests/some-id/status", gin.H{
		"status": "teleported",
	}, &staffActor)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "some-id"}}
	handler.UpdateStatus(c)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDispatchHandlerForwardAndRespond(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewDispatchHandler(db)
	require.NoError(t, err)

	customer := seedHandlerUser(t, db, models.RoleCustomer, "rider@example.com")
	admin := seedHandlerUser(t, db, models.RoleAdmin, "desk@example.com")
	hospitalUser := seedHandlerUser(t, db, models.RoleHospital, "er@example.com")
	require.NoError(t, db.Create(&models.Hospital{
		UserID:   hospitalUser.ID,
		Name:     "City General",
		State:    "Central",
		District: "North",
		IsActive: true,
	}).Error)

	created, err := handler.service.CreateRequest(context.Background(),
		models.Actor{UserID: customer.ID, Role: models.RoleCustomer},
		services.CreateRequestInput{
			PickupAddress:      "12 Lake Road",
			DestinationAddress: "City General",
			EmergencyType:      "trauma",
			ContactNumber:      "555-0100",
		})
	require.NoError(t, err)

	adminActor := models.Actor{UserID: admin.ID, Role: models.RoleAdmin}
	forwardCtx, forwardRecorder := newHandlerContext(t, http.MethodPost, "/api/ambulance/requests/"+created.ID+"/forward", gin.H{
		"hospital_id": hospitalUser.ID,
	}, &adminActor)
	forwardCtx.Params = gin.Params{gin.Param{Key: "id", Value: created.ID}}
	handler.Forward(forwardCtx)
	require.Equal(t, http.StatusOK, forwardRecorder.Code)

	hospitalActor := models.Actor{UserID: hospitalUser.ID, Role: models.RoleHospital}
	respondCtx, respondRecorder := newHandlerContext(t, http.MethodPost, "/api/ambulance/requests/"+created.ID+"/respond", gin.H{
		"response": "accepted",
		"notes":    "bed reserved",
	}, &hospitalActor)
	respondCtx.Params = gin.Params{gin.Param{Key: "id", Value: created.ID}}
	handler.Respond(respondCtx)
	require.Equal(t, http.StatusOK, respondRecorder.Code)

	var stored models.AmbulanceRequest
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.Equal(t, models.StatusHospitalAccepted, stored.Status)
	require.NotNil(t, stored.HospitalResponse)
	require.Equal(t, models.HospitalResponseAccepted, *stored.HospitalResponse)
}

func TestDispatchHandlerListUnreadFilter(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewDispatchHandler(db)
	require.NoError(t, err)

	customer := seedHandlerUser(t, db, models.RoleCustomer, "rider@example.com")
	admin := seedHandlerUser(t, db, models.RoleAdmin, "desk@example.com")

	customerActor := models.Actor{UserID: customer.ID, Role: models.RoleCustomer}
	first, err := handler.service.CreateRequest(context.Background(), customerActor, services.CreateRequestInput{
		PickupAddress:      "12 Lake Road",
		DestinationAddress: "City General",
		EmergencyType:      "cardiac",
		ContactNumber:      "555-0100",
	})
	require.NoError(t, err)
	_, err = handler.service.CreateRequest(context.Background(), customerActor, services.CreateRequestInput{
		PickupAddress:      "9 Hill Street",
		DestinationAddress: "City General",
		EmergencyType:      "trauma",
		ContactNumber:      "555-0101",
	})
	require.NoError(t, err)

	adminActor := models.Actor{UserID: admin.ID, Role: models.RoleAdmin}
	require.NoError(t, handler.service.MarkRead(context.Background(), adminActor, first.ID))

	c, recorder := newHandlerContext(t, http.MethodGet, "/api/ambulance/requests?unread_only=true", nil, &adminActor)
	handler.List(c)

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)
	require.True(t, payload.Success)
	require.NotNil(t, payload.Meta)
	require.Equal(t, 1, payload.Meta.Total)
}

func TestDispatchHandlerRequiresActor(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewDispatchHandler(db)
	require.NoError(t, err)

	c, recorder := newHandlerContext(t, http.MethodGet, "/api/ambulance/requests", nil, nil)
	handler.List(c)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
