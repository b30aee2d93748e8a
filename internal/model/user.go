package model

import "time"

// Role distinguishes candidates from catalog administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account that takes quizzes.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileComplete reports whether the user has filled in their name.
func (u User) ProfileComplete() bool {
	return u.FirstName != "" && u.LastName != ""
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful signup or login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// UpdateProfileRequest completes or edits the user's profile.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
}

// MeResponse is the authenticated user's own view.
type MeResponse struct {
	User            User `json:"user"`
	ProfileComplete bool `json:"profile_complete"`
}
