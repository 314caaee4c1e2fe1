package models

// LoginRequest represents the credentials sent to the remote auth endpoint
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the remote auth endpoint response
type LoginResponse struct {
	Token string `json:"token"`
}
