package model

import "time"

type Event struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Code        string    `gorm:"index;not null" json:"code"`
	Description string    `json:"description"`
	StartDate   time.Time `gorm:"not null" json:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedBy   string    `gorm:"index;not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`

	Invites []Invite `gorm:"foreignKey:EventInvitedTo" json:"-"`
}
