package dto

// BookActionState is returned by the create-book action
type BookActionState struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	BookID  string              `json:"bookId,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// UpdateResult is returned by actions that mutate a user's library entry
type UpdateResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *UserProgress       `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// UploadResult is returned by the file upload endpoints
type UploadResult struct {
	UploadedBy string `json:"uploadedBy"`
	FileURL    string `json:"fileUrl"`
	FileKey    string `json:"fileKey"`
	TotalPages int    `json:"totalPages,omitempty"`
	// Remaining is the daily upload quota left, omitted when unlimited
	Remaining *int64 `json:"remaining,omitempty"`
}

// AuthState is returned by the signup and login endpoints
type AuthState struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
