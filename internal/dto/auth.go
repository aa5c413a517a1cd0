package dto

// LoginRequest is the credential exchange payload. Username carries the
// email address, mirroring the frontend's form field naming.
type LoginRequest struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse bundles the bearer token with the user summary the UI
// needs to route after login.
type LoginResponse struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	FullName        string   `json:"full_name"`
	Role            string   `json:"role"`
	JobTitle        *string  `json:"job_title,omitempty"`
	AssignedVessels []string `json:"assigned_vessels"` // IMO numbers
	AccessToken     string   `json:"access_token"`
	TokenType       string   `json:"token_type"`
}
