package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/models"
	apperrors "github.com/medigrid/ambudispatch/pkg/errors"
)

// listColumnSet selects which projection the request listings use. Older
// deployments predate the signup-coordinate and forwarding migrations, so the
// reduced variant must stay available; the choice is made once at service
// construction instead of catching query failures per call.
type listColumnSet int

const (
	reducedColumns listColumnSet = iota
	extendedColumns
)

func detectListColumns(db *gorm.DB) listColumnSet {
	if db == nil {
		return reducedColumns
	}
	migrator := db.Migrator()
	if migrator.HasColumn(&models.User{}, "latitude") &&
		migrator.HasColumn(&models.AmbulanceRequest{}, "forwarded_to_hospital_id") {
		return extendedColumns
	}
	return reducedColumns
}

// RequestSummary is the typed row the listing queries project into: request
// columns plus joined display fields. Extended-only fields stay nil under the
// reduced column set.
type RequestSummary struct {
	ID                 string               `gorm:"column:id" json:"id"`
	CustomerUserID     string               `gorm:"column:customer_user_id" json:"customer_user_id"`
	PickupAddress      string               `gorm:"column:pickup_address" json:"pickup_address"`
	DestinationAddress string               `gorm:"column:destination_address" json:"destination_address"`
	EmergencyType      string               `gorm:"column:emergency_type" json:"emergency_type"`
	CustomerCondition  string               `gorm:"column:customer_condition" json:"customer_condition"`
	ContactNumber      string               `gorm:"column:contact_number" json:"contact_number"`
	Status             models.RequestStatus `gorm:"column:status" json:"status"`
	Priority           models.Priority      `gorm:"column:priority" json:"priority"`
	AssignedStaffID    *string              `gorm:"column:assigned_staff_id" json:"assigned_staff_id"`
	Notes              string               `gorm:"column:notes" json:"notes"`
	IsRead             bool                 `gorm:"column:is_read" json:"is_read"`
	CustomerState      string               `gorm:"column:customer_state" json:"customer_state"`
	CustomerDistrict   string               `gorm:"column:customer_district" json:"customer_district"`
	CreatedAt          time.Time            `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"column:updated_at" json:"updated_at"`

	PatientName  *string `gorm:"column:patient_name" json:"patient_name"`
	PatientPhone *string `gorm:"column:patient_phone" json:"patient_phone"`
	StaffName    *string `gorm:"column:staff_name" json:"staff_name"`
	StaffPhone   *string `gorm:"column:staff_phone" json:"staff_phone"`

	// Extended column set only.
	ForwardedToHospitalID *string    `gorm:"column:forwarded_to_hospital_id" json:"forwarded_to_hospital_id,omitempty"`
	HospitalResponse      *string    `gorm:"column:hospital_response" json:"hospital_response,omitempty"`
	HospitalResponseNotes *string    `gorm:"column:hospital_response_notes" json:"hospital_response_notes,omitempty"`
	HospitalResponseDate  *time.Time `gorm:"column:hospital_response_date" json:"hospital_response_date,omitempty"`
	PatientLatitude       *float64   `gorm:"column:patient_latitude" json:"patient_latitude,omitempty"`
	PatientLongitude      *float64   `gorm:"column:patient_longitude" json:"patient_longitude,omitempty"`
	HospitalName          *string    `gorm:"column:hospital_name" json:"hospital_name,omitempty"`
	HospitalAddress       *string    `gorm:"column:hospital_address" json:"hospital_address,omitempty"`
}

var reducedSelect = strings.Join([]string{
	"ar.id", "ar.customer_user_id", "ar.pickup_address", "ar.destination_address",
	"ar.emergency_type", "ar.customer_condition", "ar.contact_number",
	"ar.status", "ar.priority", "ar.assigned_staff_id", "ar.notes", "ar.is_read",
	"ar.customer_state", "ar.customer_district", "ar.created_at", "ar.updated_at",
	"patient.name AS patient_name", "patient.phone AS patient_phone",
	"staff.name AS staff_name", "staff.phone AS staff_phone",
}, ", ")

var extendedSelect = reducedSelect + ", " + strings.Join([]string{
	"ar.forwarded_to_hospital_id", "ar.hospital_response",
	"ar.hospital_response_notes", "ar.hospital_response_date",
	"patient.latitude AS patient_latitude", "patient.longitude AS patient_longitude",
	"h.name AS hospital_name", "h.address AS hospital_address",
}, ", ")

// priorityRankExpr orders critical before high before normal before low;
// unknown values sort with normal.
const priorityRankExpr = "CASE ar.priority WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'low' THEN 4 ELSE 3 END"

func (s *DispatchService) listQuery(ctx context.Context) *gorm.DB {
	query := s.db.WithContext(ctx).
		Table("ambulance_requests AS ar").
		Joins("LEFT JOIN users AS patient ON patient.id = ar.customer_user_id").
		Joins("LEFT JOIN users AS staff ON staff.id = ar.assigned_staff_id")

	if s.columns == extendedColumns {
		return query.
			Select(extendedSelect).
			Joins("LEFT JOIN hospitals AS h ON h.user_id = ar.forwarded_to_hospital_id")
	}
	return query.Select(reducedSelect)
}

// ListRequests returns every request for the staff/admin dispatch queue,
// optionally restricted to unread rows, ordered by priority rank then newest
// first within equal priority.
func (s *DispatchService) ListRequests(ctx context.Context, actor models.Actor, unreadOnly bool) ([]RequestSummary, error) {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleStaff, models.RoleAdmin) {
		return nil, apperrors.ErrForbidden
	}

	query := s.listQuery(ctx)
	if unreadOnly {
		query = query.Where("ar.is_read = ?", false)
	}

	var rows []RequestSummary
	if err := query.
		Order(priorityRankExpr + " ASC, ar.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("dispatch service: list requests: %w", err)
	}
	return rows, nil
}

// ListOwnRequests returns the calling customer's requests, newest first.
func (s *DispatchService) ListOwnRequests(ctx context.Context, actor models.Actor) ([]RequestSummary, error) {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleCustomer) {
		return nil, apperrors.ErrForbidden
	}

	var rows []RequestSummary
	if err := s.listQuery(ctx).
		Where("ar.customer_user_id = ?", actor.UserID).
		Order("ar.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("dispatch service: list own requests: %w", err)
	}
	return rows, nil
}

// ListForwardedRequests returns requests forwarded to the calling hospital,
// newest first.
func (s *DispatchService) ListForwardedRequests(ctx context.Context, actor models.Actor) ([]RequestSummary, error) {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleHospital) {
		return nil, apperrors.ErrForbidden
	}

	if s.columns != extendedColumns {
		// Without the forwarding columns there is nothing to list.
		return []RequestSummary{}, nil
	}

	var rows []RequestSummary
	if err := s.listQuery(ctx).
		Where("ar.forwarded_to_hospital_id = ?", actor.UserID).
		Order("ar.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("dispatch service: list forwarded requests: %w", err)
	}
	return rows, nil
}
