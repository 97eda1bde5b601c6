package dto

import "time"

// SessionUserDTO is the user view exposed by GET /auth/session
type SessionUserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionDTO represents an active session
type SessionDTO struct {
	User    SessionUserDTO `json:"user"`
	Expires time.Time      `json:"expires"`
}

// ProviderDTO describes a configured sign-in provider
type ProviderDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SigninURL   string `json:"signinUrl"`
	CallbackURL string `json:"callbackUrl"`
}
