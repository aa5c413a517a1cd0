package dto

import "time"

// CreateUserRequest creates an account, optionally pre-assigned to vessels.
type CreateUserRequest struct {
	Email              string   `json:"email"     binding:"required,email"`
	Password           string   `json:"password"  binding:"required,min=8"`
	FullName           string   `json:"full_name" binding:"required"`
	JobTitle           *string  `json:"job_title"`
	Role               string   `json:"role"      binding:"required"`
	AssignedVesselIMOs []string `json:"assigned_vessel_imos"`
}

// UserResponse is the account view returned to the UI.
type UserResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	JobTitle           *string   `json:"job_title,omitempty"`
	Role               string    `json:"role"`
	IsActive           bool      `json:"is_active"`
	AssignedVesselIMOs []string  `json:"assigned_vessel_imos"`
	CreatedAt          time.Time `json:"created_at"`
}
