package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Priority    string `gorm:"not null;default:medium"` // "low", "medium", "high"
	Completed   bool   `gorm:"not null;default:false"`
	DueDate     *time.Time
	CompletedAt *time.Time
	CategoryID  *uint `gorm:"index"`
	Position    *int
	UserID      uint `gorm:"not null;index"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
