package transport

import (
	"time"

	"github.com/google/uuid"
)

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// CreateVendedorRequest provisions a vendedor account. Missing fields are
// reported by the service so the caller's role is checked first.
type CreateVendedorRequest struct {
	Email    string  `json:"email" validate:"omitempty,email,max=255"`
	Password string  `json:"password" validate:"omitempty,min=6,max=72"`
	Nome     *string `json:"nome,omitempty" validate:"omitempty,max=200"`
}

type CreateVendedorResponse struct {
	Success bool      `json:"success"`
	UserID  uuid.UUID `json:"userId"`
	Email   string    `json:"email"`
}

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Nome      *string   `json:"nome,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Nome      *string   `json:"nome,omitempty"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserListResponse struct {
	Items []UserSummary `json:"items"`
}
