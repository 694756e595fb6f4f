package dto

// UpdateUserRequest: payload for the admin user editor. Role is immutable, so
// it is deliberately absent.
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required,max=100"`
}
