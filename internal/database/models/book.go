package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is a catalog entry. Suggested books are seeded for discovery,
// personal books are uploaded by a user and linked through a UserBook.
// Books are never removed physically; DeletedAt marks logical removal.
type Book struct {
	ID           string         `gorm:"type:text;primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Author       string         `gorm:"not null" json:"author"`
	ThumbnailURL string         `gorm:"not null" json:"thumbnailUrl"`
	PDFURL       string         `gorm:"column:pdf_url;not null" json:"pdfUrl"`
	TotalPages   int            `gorm:"not null;default:0" json:"totalPages"`
	IsSuggested  bool           `gorm:"not null;default:false;index" json:"isSuggested"`
	UploaderID   *string        `gorm:"index" json:"uploaderId"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deletedAt"`

	// Relationships
	Uploader *User `gorm:"foreignKey:UploaderID" json:"-"`
}

// TableName overrides the table name
func (Book) TableName() string {
	return "books"
}

// BeforeCreate hook to generate UUID if not set
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
