package models

// Hospital is the facility profile behind a hospital user account.
type Hospital struct {
	BaseModel

	UserID string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Name    string `gorm:"not null" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `json:"phone"`

	State    string `gorm:"type:varchar(100);index:idx_hospitals_region" json:"state"`
	District string `gorm:"type:varchar(100);index:idx_hospitals_region" json:"district"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// TableName keeps the table name stable across gorm naming strategy changes.
func (Hospital) TableName() string {
	return "hospitals"
}
