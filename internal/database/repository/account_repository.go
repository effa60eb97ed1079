package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
)

// AccountRepository defines the interface for credential account operations
type AccountRepository interface {
	FindCredentialByUserID(userID string) (*models.Account, error)
	Upsert(account *models.Account) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindCredentialByUserID(userID string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("user_id = ? AND provider_id = ?", userID, models.ProviderCredential).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Upsert creates the account or refreshes its password when the ID exists
func (r *accountRepository) Upsert(account *models.Account) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "updated_at"}),
	}).Create(account).Error
}

// Repository errors
var (
	ErrAccountNotFound = errors.New("account not found")
)
