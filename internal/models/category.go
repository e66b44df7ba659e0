package models

import (
	"time"

	"gorm.io/gorm"
)

// Category represents income/expense category. One level of nesting via
// ParentID; parent and child must share the same type.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:64;not null"`
	Type      string `gorm:"size:16;index;not null"` // income / expense
	ParentID  *uint  `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
