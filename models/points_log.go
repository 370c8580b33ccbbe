package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Point actions recorded in the log. The log is append-only and is the
// source of truth for balances; users.points is a derived column kept in
// sync inside the same transaction as each append.
const (
	ActionCheckin          = "checkin"
	ActionStreakBonus      = "streak-bonus"
	ActionCouponSubmission = "coupon-submission"
	ActionWithdrawal       = "withdrawal"
	ActionSignupBonus      = "signup-bonus"
	ActionOther            = "other"
)

var (
	// ErrInsufficientPoints is returned when a deduction would drive a
	// balance negative.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrInvalidDelta is returned for a zero point delta.
	ErrInvalidDelta = errors.New("point delta must be non-zero")
)

// PointsLog is an immutable record of a single point-affecting event.
// Entries are never updated or deleted.
type PointsLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Delta       int       `gorm:"not null" json:"delta"`
	Action      string    `gorm:"size:32;not null;index" json:"action"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ApplyPointsDelta appends a log entry and adjusts the user's balance in one
// statement pair. Deductions use a conditional UPDATE (points >= -delta) so
// two concurrent spends can never both pass a stale balance check.
// Must be called inside a transaction.
func ApplyPointsDelta(tx *gorm.DB, userID uint, delta int, action, description string) error {
	if delta == 0 {
		return ErrInvalidDelta
	}

	q := tx.Model(&User{}).Where("id = ?", userID)
	if delta < 0 {
		q = q.Where("points >= ?", -delta)
	}
	res := q.Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if delta < 0 {
			return ErrInsufficientPoints
		}
		return gorm.ErrRecordNotFound
	}

	entry := PointsLog{
		UserID:      userID,
		Delta:       delta,
		Action:      action,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// SumPointsDeltas returns the sum of all log deltas for a user. Used by
// consistency checks against the derived users.points column.
func SumPointsDeltas(db *gorm.DB, userID uint) (int64, error) {
	var sum int64
	err := db.Model(&PointsLog{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta),0)").
		Scan(&sum).Error
	return sum, err
}
