package identity

import (
	"errors"
	"fmt"
	"time"
)

// User is the identity-provider account record.
type User struct {
	ID               string                 `json:"id"`
	Email            string                 `json:"email"`
	EmailConfirmedAt *time.Time             `json:"email_confirmed_at,omitempty"`
	UserMetadata     map[string]interface{} `json:"user_metadata,omitempty"`
	AppMetadata      map[string]interface{} `json:"app_metadata,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// FullName reads the display name out of the user metadata, if present.
func (u *User) FullName() string {
	if u.UserMetadata == nil {
		return ""
	}
	if name, ok := u.UserMetadata["full_name"].(string); ok {
		return name
	}
	return ""
}

// Role reads the role claim out of the app metadata. Callers must treat this
// as a hint only; the relational store is authoritative.
func (u *User) Role() string {
	if u.AppMetadata == nil {
		return ""
	}
	if role, ok := u.AppMetadata["role"].(string); ok {
		return role
	}
	return ""
}

// Session is an issued token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// APIError is a non-2xx provider response.
type APIError struct {
	StatusCode int
	Code       string `json:"error_code"`
	Message    string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider error (status %d): %s", e.StatusCode, e.Message)
}

var (
	// ErrAlreadyConfirmed is returned when an OTP resend is requested for an
	// email that has already been verified.
	ErrAlreadyConfirmed = errors.New("email already confirmed")

	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
