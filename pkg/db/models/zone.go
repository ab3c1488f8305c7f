package models

import "time"

// Zone is static reference data mapping a delivery area code to its
// localized display names.
type Zone struct {
	Code      string    `gorm:"column:code;primaryKey"`
	NameEN    string    `gorm:"column:name_en;not null"`
	NameHI    string    `gorm:"column:name_hi;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
