package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/models"
	apperrors "github.com/medigrid/ambudispatch/pkg/errors"
)

// HospitalService serves the hospital directory the forwarding workflow
// selects recipients from.
type HospitalService struct {
	db *gorm.DB
}

// NewHospitalService constructs a HospitalService.
func NewHospitalService(db *gorm.DB) (*HospitalService, error) {
	if db == nil {
		return nil, errors.New("hospital service: db is required")
	}
	return &HospitalService{db: db}, nil
}

// ListByRegion returns active hospitals in the given state/district, sorted by
// name. Admin only.
func (s *HospitalService) ListByRegion(ctx context.Context, actor models.Actor, state, district string) ([]models.Hospital, error) {
	ctx = ensureContext(ctx)

	if !actor.Is(models.RoleAdmin) {
		return nil, apperrors.ErrForbidden
	}

	state = strings.TrimSpace(state)
	if state == "" {
		return nil, apperrors.NewBadRequest("state is required")
	}

	query := s.db.WithContext(ctx).
		Where("is_active = ? AND state = ?", true, state)
	if district = strings.TrimSpace(district); district != "" {
		query = query.Where("district = ?", district)
	}

	var rows []models.Hospital
	if err := query.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("hospital service: list by region: %w", err)
	}

	return rows, nil
}

// FindActiveByUserID resolves the active hospital profile behind a hospital
// user account. Returns ErrNotFound when no such hospital exists.
func (s *HospitalService) FindActiveByUserID(ctx context.Context, userID string) (*models.Hospital, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewBadRequest("hospital id is required")
	}

	var hospital models.Hospital
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&hospital).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("hospital not found")
		}
		return nil, fmt.Errorf("hospital service: find by user id: %w", err)
	}

	return &hospital, nil
}
