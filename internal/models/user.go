package models

import "time"

// User describes every platform actor: customers, dispatch staff, admins and
// hospital accounts. Hospital accounts carry a Hospital profile row keyed by
// their user id.
type User struct {
	BaseModel

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Phone    string `json:"phone"`

	Role Role `gorm:"type:varchar(16);not null;index" json:"role"`

	State    string `gorm:"type:varchar(100)" json:"state"`
	District string `gorm:"type:varchar(100)" json:"district"`

	// Signup coordinates captured at registration. Older deployments never
	// ran the migration that adds them, which is why the request listing
	// carries a reduced projection without these columns.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
