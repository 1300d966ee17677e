package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model

	Name   string `gorm:"not null"`
	Color  string `gorm:"not null"` // hex string, e.g. "#3b82f6"
	Icon   string
	UserID uint `gorm:"not null;index"`

	// Relationships
	User  User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks []Task `gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
