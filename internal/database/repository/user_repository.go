package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateWithAccount(user *models.User, account *models.Account) error
	FirstOrCreateByEmail(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateWithAccount inserts the user and its credential account atomically.
// Returns ErrEmailTaken when the email is already registered.
func (r *userRepository) CreateWithAccount(user *models.User, account *models.Account) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		account.UserID = user.ID
		if account.AccountID == "" {
			account.AccountID = user.ID
		}
		return tx.Create(account).Error
	})
}

// FirstOrCreateByEmail loads the user with the same email or creates it.
// On return user holds the persisted row.
func (r *userRepository) FirstOrCreateByEmail(user *models.User) error {
	return r.db.Where(models.User{Email: user.Email}).Attrs(*user).FirstOrCreate(user).Error
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Repository errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)
