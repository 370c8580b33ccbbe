package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// IconFallback is used for any icon name outside the supported set.
const IconFallback = "tag"

// CategoryIcons is the set of icon names the frontend ships glyphs for.
var CategoryIcons = map[string]bool{
	"tag":         true,
	"shirt":       true,
	"utensils":    true,
	"plane":       true,
	"smartphone":  true,
	"laptop":      true,
	"home":        true,
	"heart":       true,
	"book":        true,
	"gamepad":     true,
	"car":         true,
	"baby":        true,
	"gift":        true,
	"briefcase":   true,
	"graduation":  true,
	"pill":        true,
	"paw":         true,
	"dumbbell":    true,
	"film":        true,
	"shopping":    true,
}

// NormalizeIcon maps an arbitrary icon name to a supported one.
func NormalizeIcon(icon string) string {
	icon = strings.ToLower(strings.TrimSpace(icon))
	if CategoryIcons[icon] {
		return icon
	}
	return IconFallback
}

// Category groups stores for browsing (fashion, food, travel, ...).
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:64;not null" json:"name"`
	Slug      string         `gorm:"size:80;uniqueIndex;not null" json:"slug"`
	Icon      string         `gorm:"size:32;default:tag" json:"icon"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
