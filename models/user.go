package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a DealKhoj member. Accounts are normally created through an
// external identity provider; PasswordHash is only set for seeded local
// accounts (the bootstrap admin).
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	DisplayName   string         `gorm:"size:64;not null" json:"display_name"`
	Email         string         `gorm:"size:255;index" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	Provider      string         `gorm:"size:32;index:idx_users_identity" json:"provider"`
	ProviderID    string         `gorm:"size:255;index:idx_users_identity" json:"provider_id"`
	AvatarURL     string         `gorm:"size:512" json:"avatar_url"`
	IsAdmin       bool           `gorm:"default:false" json:"is_admin"`
	Banned        bool           `gorm:"default:false" json:"banned"`
	Points        int            `gorm:"default:0" json:"points"`
	StreakDays    int            `gorm:"default:0" json:"streak_days"`
	LastCheckinAt *time.Time     `json:"last_checkin_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
