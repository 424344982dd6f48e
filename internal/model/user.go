// Package model defines database models
package model

import "time"

type User struct {
	ID                     string     `gorm:"primaryKey" json:"id"`
	Email                  string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword         string     `gorm:"not null" json:"-"`
	IsActive               bool       `gorm:"default:false" json:"is_active"`
	PasswordResetKey       *string    `gorm:"uniqueIndex" json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`
	CreatedAt              time.Time  `gorm:"not null" json:"created_at"`

	Events []Event `gorm:"foreignKey:CreatedBy" json:"-"`
}
