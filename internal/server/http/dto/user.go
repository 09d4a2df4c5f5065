package dto

import "time"

// RegisterUserRequest describes user registration payload.
type RegisterUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserResponse represents a registered user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse carries a failure description.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
