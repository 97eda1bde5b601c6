package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account links a user to an identity at an OAuth provider.
type Account struct {
	ID                string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID            string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Provider          string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_accounts_provider_account" json:"provider"`
	ProviderAccountID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_provider_account" json:"provider_account_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
