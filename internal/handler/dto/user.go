// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/tradepost/tradepost/internal/model"
)

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse carries the token pair issued on register or login.
type AuthResponse struct {
	User         model.UserResponse `json:"user"`
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// CreateUserRequest represents the request body for privileged
// account creation.
type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// UpdateUserRequest represents the request body for updating an account.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// UserListResponse represents a paginated list of accounts.
type UserListResponse struct {
	Data       []model.UserResponse `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// Pagination provides offset-based pagination info.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToUserListResponse converts a page of users into the list envelope.
func ToUserListResponse(users []*model.User, page, limit int, total int64) UserListResponse {
	data := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, u.ToResponse())
	}
	return UserListResponse{
		Data: data,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}
}
