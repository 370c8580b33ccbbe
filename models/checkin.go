package models

import "time"

// CheckIn stores daily check-in records for users. Append-only; at most one
// row per user per calendar day, enforced by the unique index.
type CheckIn struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;index:idx_checkin_user_date,unique;not null" json:"user_id"`
	CheckinDate time.Time `gorm:"index:idx_checkin_user_date,unique;type:date;not null" json:"checkin_date"`
	StreakDay   int       `gorm:"not null" json:"streak_day"`
	Points      int       `gorm:"not null" json:"points"`
	CreatedAt   time.Time `json:"created_at"`
}

// StreakDayIndex maps a consecutive-day streak count onto the 1-7 reward
// cycle: day 8 of a streak earns as day 1 again.
func StreakDayIndex(streak int) int {
	if streak < 1 {
		return 1
	}
	return (streak-1)%7 + 1
}
