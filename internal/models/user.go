package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Image        string
	GithubID     *string        `gorm:"uniqueIndex"`
	PasswordHash *string        // nil for OAuth-only accounts
	ProviderData datatypes.JSON `gorm:"type:jsonb"` // raw profile payload from the OAuth provider

	// Relationships
	Categories []Category `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks      []Task     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
