package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationTypeAmbulance tags notifications produced by the dispatch core.
const NotificationTypeAmbulance = "ambulance"

// Notification is an insert-only side record consumed by a separate delivery
// subsystem. The dispatch core only creates rows; reading and pruning are
// conveniences for the recipient-facing API.
type Notification struct {
	BaseModel

	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string         `gorm:"type:varchar(64);not null" json:"type"`
	Title     string         `gorm:"not null" json:"title"`
	Message   string         `gorm:"type:text" json:"message"`
	RelatedID string         `gorm:"type:uuid;index" json:"related_id"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}
