// Package api is the wire contract between the gophauth server and its
// clients: request and response records, the gRPC service descriptor, a
// client stub and the JSON codec the records travel in.
package api

import "time"

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by CreateUser and Login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type RefreshResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId"`
	Email   string `json:"email"`
}

type PingResponse struct {
	Status string `json:"status"`
}
