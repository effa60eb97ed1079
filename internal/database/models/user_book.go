package models

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadingStatus represents where a user is with a book
type ReadingStatus string

const (
	ReadingStatusNew      ReadingStatus = "NEW"
	ReadingStatusReading  ReadingStatus = "READING"
	ReadingStatusFinished ReadingStatus = "FINISHED"
)

// Scan implements the sql.Scanner interface for ReadingStatus
func (s *ReadingStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReadingStatusNew
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*s = ReadingStatus(v)
	case string:
		*s = ReadingStatus(v)
	default:
		return errors.New("invalid reading status type")
	}
	return nil
}

// Value implements the driver.Valuer interface for ReadingStatus
func (s ReadingStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// IsValid reports whether s is one of the known statuses
func (s ReadingStatus) IsValid() bool {
	switch s {
	case ReadingStatusNew, ReadingStatusReading, ReadingStatusFinished:
		return true
	}
	return false
}

// UserBook is a user's personal relationship to a catalog book.
// Its existence means the book is in the user's library.
type UserBook struct {
	ID           string         `gorm:"type:text;primaryKey" json:"id"`
	UserID       string         `gorm:"not null;uniqueIndex:idx_user_book" json:"userId"`
	BookID       string         `gorm:"not null;uniqueIndex:idx_user_book;index" json:"bookId"`
	Status       ReadingStatus  `gorm:"type:varchar(16);not null;default:NEW" json:"status"`
	IsFavorite   bool           `gorm:"not null;default:false" json:"isFavorite"`
	ProgressPage int            `gorm:"not null;default:1" json:"progressPage"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deletedAt"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"book"`
}

// TableName overrides the table name
func (UserBook) TableName() string {
	return "user_books"
}

// BeforeCreate hook to generate UUID if not set
func (ub *UserBook) BeforeCreate(tx *gorm.DB) error {
	if ub.ID == "" {
		ub.ID = uuid.NewString()
	}
	return nil
}
