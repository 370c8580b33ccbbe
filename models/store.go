package models

import (
	"time"

	"gorm.io/gorm"
)

// Store is a merchant whose coupons the site lists.
type Store struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	Slug        string         `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	CategoryID  uint           `gorm:"index;not null" json:"category_id"`
	Description string         `gorm:"type:text" json:"description"`
	WebsiteURL  string         `gorm:"size:255" json:"website_url"`
	LogoURL     string         `gorm:"size:255" json:"logo_url"`
	Featured    bool           `gorm:"default:false;index" json:"featured"`
	Active      bool           `gorm:"default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Coupons  []Coupon  `gorm:"foreignKey:StoreID" json:"coupons,omitempty"`
}
