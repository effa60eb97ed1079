package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProviderCredential identifies email/password accounts
const ProviderCredential = "credential"

// Account stores the credentials a user signs in with, one row per provider
type Account struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	AccountID  string    `gorm:"not null;uniqueIndex:idx_account_provider" json:"accountId"`
	ProviderID string    `gorm:"not null;uniqueIndex:idx_account_provider" json:"providerId"`
	UserID     string    `gorm:"not null;index" json:"userId"`
	Password   *string   `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides the table name
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate hook to generate an ID if not set
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
