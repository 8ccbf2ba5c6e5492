package models

import "time"

// AmbulanceRequest is the central record of the dispatch workflow. A request
// is owned by exactly one customer for its whole lifetime and is never
// deleted; terminal states are retained for audit.
type AmbulanceRequest struct {
	BaseModel

	CustomerUserID string `gorm:"type:uuid;not null;index" json:"customer_user_id"`
	Customer       *User  `gorm:"foreignKey:CustomerUserID" json:"customer,omitempty"`

	PickupAddress      string `gorm:"type:text;not null" json:"pickup_address"`
	DestinationAddress string `gorm:"type:text;not null" json:"destination_address"`
	EmergencyType      string `gorm:"not null" json:"emergency_type"`
	CustomerCondition  string `gorm:"type:text" json:"customer_condition"`
	ContactNumber      string `gorm:"not null" json:"contact_number"`

	Status   RequestStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	Priority Priority      `gorm:"type:varchar(16);not null;default:'normal'" json:"priority"`

	AssignedStaffID *string `gorm:"type:uuid;index" json:"assigned_staff_id"`
	AssignedStaff   *User   `gorm:"foreignKey:AssignedStaffID" json:"assigned_staff,omitempty"`

	Notes string `gorm:"type:text" json:"notes"`

	// Admin-visibility flag, reset to unread whenever the request is
	// forwarded so it resurfaces in the unread queue.
	IsRead bool `gorm:"default:false;index" json:"is_read"`

	ForwardedToHospitalID *string           `gorm:"type:uuid;index" json:"forwarded_to_hospital_id"`
	HospitalResponse      *HospitalResponse `gorm:"type:varchar(16)" json:"hospital_response"`
	HospitalResponseNotes string            `gorm:"type:text" json:"hospital_response_notes"`
	HospitalResponseDate  *time.Time        `json:"hospital_response_date"`

	// Denormalized from the customer profile at creation time.
	CustomerState    string `gorm:"type:varchar(100)" json:"customer_state"`
	CustomerDistrict string `gorm:"type:varchar(100)" json:"customer_district"`
}
