package dto

import "time"

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest entrada para renovar el par de tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ValidateRequest entrada para validar un access token.
type ValidateRequest struct {
	Token string `json:"token"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TokenResponse par de tokens emitido en login, registro y refresh.
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"` // segundos de vida del access token
	User         *UserResponse `json:"user,omitempty"`
}

// ValidateResponse resultado de validar un token.
type ValidateResponse struct {
	Valid     bool      `json:"valid"`
	UserID    string    `json:"user_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}
