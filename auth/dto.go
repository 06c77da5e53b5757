package auth

import "github.com/user/userservice-go/store"

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username  string `json:"username" example:"newuser"`
	Email     string `json:"email" example:"user@example.com"`
	Password  string `json:"password" example:"strongpassword123"`
	FirstName string `json:"first_name,omitempty" example:"John"`
	LastName  string `json:"last_name,omitempty" example:"Doe"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Username string `json:"username" example:"newuser"`
	Password string `json:"password" example:"strongpassword123"`
}

// RegisterResponse is returned to the client on successful registration.
// The embedded account serializes without its password hash.
type RegisterResponse struct {
	Message string         `json:"message" example:"User registered successfully"`
	User    *store.Account `json:"user"`
}

// LoginResponse is returned to the client on successful login.
type LoginResponse struct {
	Message string         `json:"message" example:"Login successful"`
	Token   string         `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User    *store.Account `json:"user"`
}
