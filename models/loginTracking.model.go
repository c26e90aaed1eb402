package models

import "time"

// LoginTracking records one successful admin sign-in.
type LoginTracking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	IPAddress string    `gorm:"type:varchar(64)" json:"ipAddress"`
	Device    string    `gorm:"type:varchar(255)" json:"device"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
