// Package model defines domain entities for the application.
package model

import "time"

// Role represents a user's privilege level.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{RoleAdmin, RoleModerator, RoleUser}

// IsValid checks if the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleModerator || r == RoleUser
}

// User represents a user account entity.
type User struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize
	Role         Role       `json:"role"`
	CreatorID    *string    `json:"creator_id,omitempty"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsDeleted returns true if the account has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// UserResponse represents a user in API responses (without secrets).
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatorID *string   `json:"creator_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts a User to UserResponse.
// This is the single sanitization point: every account-shaped value
// leaving the service boundary passes through here, so the password
// hash can never cross into a response body.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		CreatorID: u.CreatorID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthContext holds authenticated request context.
// This is injected into the request context by auth middleware.
type AuthContext struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin returns true for admin actors.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}
