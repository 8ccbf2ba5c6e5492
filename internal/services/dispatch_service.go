package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/models"
	apperrors "github.com/medigrid/ambudispatch/pkg/errors"
	"github.com/medigrid/ambudispatch/pkg/logger"
	"github.com/medigrid/ambudispatch/pkg/metrics"
)

// DispatchService implements the ambulance request lifecycle: creation,
// assignment, status tracking, hospital forwarding and hospital responses.
// Every operation first gates on the actor's role, then on ownership, and
// only then touches state.
type DispatchService struct {
	db            *gorm.DB
	notifications *NotificationService
	hospitals     *HospitalService
	columns       listColumnSet
	log           *zap.Logger
	now           func() time.Time
}

// DispatchOption customises the DispatchService.
type DispatchOption func(*DispatchService)

// WithClock overrides the clock, primarily for tests.
func WithClock(now func() time.Time) DispatchOption {
	return func(s *DispatchService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewDispatchService constructs the dispatch core. The listing column set is
// capability-detected once here, not per call.
func NewDispatchService(db *gorm.DB, notifications *NotificationService, hospitals *HospitalService, opts ...DispatchOption) (*DispatchService, error) {
	if db == nil {
		return nil, errors.New("dispatch service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("dispatch service: notification service is required")
	}
	if hospitals == nil {
		return nil, errors.New("dispatch service: hospital service is required")
	}

	svc := &DispatchService{
		db:            db,
		notifications: notifications,
		hospitals:     hospitals,
		columns:       detectListColumns(db),
		log:           logger.WithModule("dispatch"),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CreateRequestInput captures the fields a customer submits when requesting
// an ambulance.
type CreateRequestInput struct {
	PickupAddress      string
	DestinationAddress string
	EmergencyType      string
	CustomerCondition  string
	ContactNumber      string
	Priority           string
	Notes              string
}

// CreateRequest registers a new ambulance request owned by the calling
// customer. The request starts pending with priority defaulting to normal.
func (s *DispatchService) CreateRequest(ctx context.Context, actor models.Actor, input CreateRequestInput) (*models.AmbulanceRequest, error) {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleCustomer) {
		return nil, apperrors.ErrForbidden
	}

	pickup := strings.TrimSpace(input.PickupAddress)
	destination := strings.TrimSpace(input.DestinationAddress)
	emergencyType := strings.TrimSpace(input.EmergencyType)
	contact := strings.TrimSpace(input.ContactNumber)
	switch {
	case pickup == "":
		return nil, apperrors.NewBadRequest("pickup address is required")
	case destination == "":
		return nil, apperrors.NewBadRequest("destination address is required")
	case emergencyType == "":
		return nil, apperrors.NewBadRequest("emergency type is required")
	case contact == "":
		return nil, apperrors.NewBadRequest("contact number is required")
	}

	priority := models.PriorityNormal
	if raw := strings.TrimSpace(input.Priority); raw != "" {
		parsed, ok := models.ParsePriority(raw)
		if !ok {
			return nil, apperrors.NewBadRequest("invalid priority")
		}
		priority = parsed
	}

	request := models.AmbulanceRequest{
		CustomerUserID:     actor.UserID,
		PickupAddress:      pickup,
		DestinationAddress: destination,
		EmergencyType:      emergencyType,
		CustomerCondition:  strings.TrimSpace(input.CustomerCondition),
		ContactNumber:      contact,
		Status:             models.StatusPending,
		Priority:           priority,
		Notes:              strings.TrimSpace(input.Notes),
	}

	// Denormalize the customer's region onto the request.
	var customer models.User
	if err := s.db.WithContext(ctx).Select("state", "district").
		Where("id = ?", actor.UserID).First(&customer).Error; err == nil {
		request.CustomerState = customer.State
		request.CustomerDistrict = customer.District
	}

	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		metrics.RequestTransitions.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("dispatch service: create request: %w", err)
	}

	metrics.RequestTransitions.WithLabelValues("create", "ok").Inc()
	s.log.Info("request created",
		zap.String("request_id", request.ID),
		zap.String("customer_id", actor.UserID),
		zap.String("priority", priority.String()),
	)
	return &request, nil
}

// AssignSelf binds a pending, unassigned request to the calling staff actor.
// The guard is a conditional update so two concurrent staff actors cannot
// both win.
func (s *DispatchService) AssignSelf(ctx context.Context, actor models.Actor, requestID string) error {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleStaff) {
		return apperrors.ErrForbidden
	}

	if _, err := s.loadRequest(ctx, requestID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.AmbulanceRequest{}).
		Where("id = ? AND status = ? AND assigned_staff_id IS NULL", requestID, models.StatusPending).
		Updates(map[string]any{
			"status":            models.StatusAssigned,
			"assigned_staff_id": actor.UserID,
		})
	if result.Error != nil {
		metrics.RequestTransitions.WithLabelValues("assign", "error").Inc()
		return fmt.Errorf("dispatch service: assign request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		metrics.RequestTransitions.WithLabelValues("assign", "rejected").Inc()
		return apperrors.NewBadRequest("request is not pending or already assigned")
	}

	metrics.RequestTransitions.WithLabelValues("assign", "ok").Inc()
	s.log.Info("request assigned",
		zap.String("request_id", requestID),
		zap.String("staff_id", actor.UserID),
	)
	return nil
}

// UpdateStatusInput carries the transition parameters for the guarded
// status-update path. Notes are replaced only when non-nil.
type UpdateStatusInput struct {
	Status string
	Notes  *string
}

// UpdateStatus moves a request through the tracked lifecycle states. Staff
// actors must be the assignee; admins may update any request. The status must
// belong to the fixed updatable set.
func (s *DispatchService) UpdateStatus(ctx context.Context, actor models.Actor, requestID string, input UpdateStatusInput) error {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleStaff, models.RoleAdmin) {
		return apperrors.ErrForbidden
	}

	status, ok := models.ParseStatus(input.Status)
	if !ok || !status.IsStaffUpdatable() {
		return apperrors.NewBadRequest("invalid status")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}

	if actor.Role == models.RoleStaff {
		if request.AssignedStaffID == nil || *request.AssignedStaffID != actor.UserID {
			return apperrors.NewForbidden("request is not assigned to you")
		}
	}

	updates := map[string]any{"status": status}
	if input.Notes != nil {
		updates["notes"] = strings.TrimSpace(*input.Notes)
	}

	if err := s.db.WithContext(ctx).Model(request).Updates(updates).Error; err != nil {
		metrics.RequestTransitions.WithLabelValues("update_status", "error").Inc()
		return fmt.Errorf("dispatch service: update status: %w", err)
	}

	metrics.RequestTransitions.WithLabelValues("update_status", "ok").Inc()
	s.log.Info("request status updated",
		zap.String("request_id", requestID),
		zap.String("status", status.String()),
		zap.String("actor_id", actor.UserID),
	)
	return nil
}

// AdminUpdateInput sets status, assignee and notes wholesale.
type AdminUpdateInput struct {
	Status          string
	AssignedStaffID *string
	Notes           string
}

/// AdminUpdate is the administrative override: it writes status, assignee and
// notes without consulting the transition guard. Kept deliberately separate
// from UpdateStatus; do not unify the two paths.
func (s *DispatchService) AdminUpdate(ctx context.Context, actor models.Actor, requestID string, input AdminUpdateInput) error {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleStaff, models.RoleAdmin) {
		return apperrors.ErrForbidden
	}

	status, ok := models.ParseStatus(input.Status)
	if !ok {
		return apperrors.NewBadRequest("invalid status")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"status": status,
		"notes":  strings.TrimSpace(input.Notes),
	}
	if input.AssignedStaffID != nil && strings.TrimSpace(*input.AssignedStaffID) != "" {
		updates["assigned_staff_id"] = strings.TrimSpace(*input.AssignedStaffID)
	} else {
		updates["assigned_staff_id"] = nil
	}

	if err := s.db.WithContext(ctx).Model(request).Updates(updates).Error; err != nil {
		metrics.RequestTransitions.WithLabelValues("admin_update", "error").Inc()
		return fmt.Errorf("dispatch service: admin update: %w", err)
	}

	metrics.RequestTransitions.WithLabelValues("admin_update", "ok").Inc()
	s.log.Info("request updated by override",
		zap.String("request_id", requestID),
		zap.String("status", status.String()),
		zap.String("actor_id", actor.UserID),
	)
	return nil
}

// ForwardToHospital hands a request to a hospital for acceptance. The
// request becomes unread again so it resurfaces in the admin queue, and both
// the hospital and the customer are notified.
func (s *DispatchService) ForwardToHospital(ctx context.Context, actor models.Actor, requestID, hospitalUserID string) error {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleAdmin) {
		return apperrors.ErrForbidden
	}

	if strings.TrimSpace(hospitalUserID) == "" {
		return apperrors.NewBadRequest("hospital id is required")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}

	hospital, err := s.hospitals.FindActiveByUserID(ctx, hospitalUserID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(request).Updates(map[string]any{
		"forwarded_to_hospital_id": hospital.UserID,
		"status":                   models.StatusForwardedToHospital,
		"is_read":                  false,
		"hospital_response":        models.HospitalResponsePending,
		"hospital_response_notes":  "",
		"hospital_response_date":   nil,
	}).Error; err != nil {
		metrics.RequestTransitions.WithLabelValues("forward", "error").Inc()
		return fmt.Errorf("dispatch service: forward request: %w", err)
	}

	// The update and the notification inserts are separate statements; a
	// crash in between leaves notifications missing. Accepted window.
	if _, err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:    hospital.UserID,
		Title:     "Ambulance request forwarded to you",
		Message:   fmt.Sprintf("Emergency: %s. Pickup: %s.", request.EmergencyType, request.PickupAddress),
		RelatedID: request.ID,
	}); err != nil {
		return apperrors.Wrap(err, "failed to notify hospital")
	}
	if _, err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:    request.CustomerUserID,
		Title:     "Your request was forwarded to a hospital",
		Message:   fmt.Sprintf("Your ambulance request was forwarded to %s.", hospital.Name),
		RelatedID: request.ID,
	}); err != nil {
		return apperrors.Wrap(err, "failed to notify customer")
	}

	metrics.RequestTransitions.WithLabelValues("forward", "ok").Inc()
	s.log.Info("request forwarded",
		zap.String("request_id", request.ID),
		zap.String("hospital_user_id", hospital.UserID),
	)
	return nil
}

// MarkRead flags a request as seen in the admin queue.
func (s *DispatchService) MarkRead(ctx context.Context, actor models.Actor, requestID string) error {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleAdmin) {
		return apperrors.ErrForbidden
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(request).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("dispatch service: mark read: %w", err)
	}
	return nil
}

// HospitalRespondInput carries a hospital's answer to a forwarded request.
type HospitalRespondInput struct {
	Response string
	Notes    string
}

// HospitalRespond records a hospital's accept/reject decision on a request
// forwarded to it, then notifies the customer and the admin desk.
func (s *DispatchService) HospitalRespond(ctx context.Context, actor models.Actor, requestID string, input HospitalRespondInput) error {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleHospital) {
		return apperrors.ErrForbidden
	}

	decision, ok := models.ParseHospitalResponse(input.Response)
	if !ok {
		return apperrors.NewBadRequest("response must be accepted or rejected")
	}

	var request models.AmbulanceRequest
	if err := s.db.WithContext(ctx).
		Where("id = ? AND forwarded_to_hospital_id = ?", strings.TrimSpace(requestID), actor.UserID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("request not found")
		}
		return fmt.Errorf("dispatch service: load forwarded request: %w", err)
	}

	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&request).Updates(map[string]any{
		"hospital_response":       decision,
		"hospital_response_notes": strings.TrimSpace(input.Notes),
		"hospital_response_date":  now,
		"status":                  decision.Status(),
	}).Error; err != nil {
		metrics.RequestTransitions.WithLabelValues("hospital_respond", "error").Inc()
		return fmt.Errorf("dispatch service: hospital respond: %w", err)
	}

	if _, err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:    request.CustomerUserID,
		Title:     fmt.Sprintf("Hospital %s your request", decision),
		Message:   fmt.Sprintf("The hospital has %s your ambulance request.", decision),
		RelatedID: request.ID,
	}); err != nil {
		return apperrors.Wrap(err, "failed to notify customer")
	}
	if adminID, err := s.firstAdminID(ctx); err != nil {
		return apperrors.Wrap(err, "failed to resolve admin recipient")
	} else if adminID != "" {
		if _, err := s.notifications.Create(ctx, CreateNotificationInput{
			UserID:    adminID,
			Title:     fmt.Sprintf("Hospital %s a forwarded request", decision),
			Message:   fmt.Sprintf("Request %s was %s by the hospital.", request.ID, decision),
			RelatedID: request.ID,
		}); err != nil {
			return apperrors.Wrap(err, "failed to notify admin")
		}
	}

	metrics.RequestTransitions.WithLabelValues("hospital_respond", "ok").Inc()
	s.log.Info("hospital responded",
		zap.String("request_id", request.ID),
		zap.String("hospital_user_id", actor.UserID),
		zap.String("decision", decision.String()),
	)
	return nil
}

func (s *DispatchService) loadRequest(ctx context.Context, requestID string) (*models.AmbulanceRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, apperrors.NewBadRequest("request id is required")
	}

	var request models.AmbulanceRequest
	if err := s.db.WithContext(ctx).Where("id = ?", requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("request not found")
		}
		return nil, fmt.Errorf("dispatch service: load request: %w", err)
	}
	return &request, nil
}

// firstAdminID returns the oldest active admin account, the deterministic
// recipient of hospital-response notifications.
func (s *DispatchService) firstAdminID(ctx context.Context) (string, error) {
	var admin models.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Order("created_at").
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return admin.ID, nil
}
