package dto

import (
	"strings"

	"github.com/EgehanKilicarslan/noted/backend-go/internal/database/models"
)

// CreateBookRequest is the payload of the create-book action
type CreateBookRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Author       string `json:"author" validate:"required,max=255"`
	PDFURL       string `json:"pdfUrl" validate:"required,url"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"required,url"`
	TotalPages   int    `json:"totalPages" validate:"gte=0"`
}

// Normalize trims surrounding whitespace so blank strings fail "required"
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.PDFURL = strings.TrimSpace(r.PDFURL)
	r.ThumbnailURL = strings.TrimSpace(r.ThumbnailURL)
}

// SignupRequest is the payload of the signup endpoint
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Normalize trims the username and email
func (r *SignupRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

// LoginRequest is the payload of the login endpoint
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// FavoriteRequest sets the favorite flag of a library entry
type FavoriteRequest struct {
	IsFavorite *bool `json:"isFavorite" validate:"required"`
}

// ProgressRequest moves the reading position of a library entry
type ProgressRequest struct {
	ProgressPage int                   `json:"progressPage" validate:"required,gte=1"`
	Status       *models.ReadingStatus `json:"status" validate:"omitempty,oneof=NEW READING FINISHED"`
}
