package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a deal or promo code attached to a store. User submissions
// start unapproved and only appear publicly after moderation.
type Coupon struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	StoreID     uint           `gorm:"index;not null" json:"store_id"`
	SubmitterID *uint          `gorm:"index" json:"submitter_id,omitempty"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Code        string         `gorm:"size:64" json:"code"`
	Description string         `gorm:"type:text" json:"description"`
	Discount    string         `gorm:"size:64" json:"discount"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	Approved    bool           `gorm:"default:false;index" json:"approved"`
	CopyCount   int            `gorm:"default:0" json:"copy_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

// Expired reports whether the coupon's expiry has passed. Coupons without
// an expiry never expire.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// CouponStat counts copy events per coupon per local day.
type CouponStat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;uniqueIndex:idx_stat_date_coupon;not null" json:"date"`
	CouponID  uint      `gorm:"uniqueIndex:idx_stat_date_coupon;not null" json:"coupon_id"`
	Count     int       `gorm:"default:0" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
