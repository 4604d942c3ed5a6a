package repository

import (
	"context"

	"github.com/google/uuid"
)

// UserReader provides read access to accounts.
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	ListUsers(ctx context.Context) ([]UserWithRoles, error)
	ListUsersByRole(ctx context.Context, role string) ([]UserWithRoles, error)
	AnyUserWithRole(ctx context.Context, role string) (bool, error)
}

// UserWriter provides account mutations.
type UserWriter interface {
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	UpdateUserName(ctx context.Context, userID uuid.UUID, nome string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// RoleStore manages role grants.
type RoleStore interface {
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	GrantRole(ctx context.Context, userID uuid.UUID, role string) error
	RevokeRole(ctx context.Context, userID uuid.UUID, role string) error
}

// AuthRepository defines the interface for authentication data operations.
type AuthRepository interface {
	UserReader
	UserWriter
	RoleStore
}

// Ensure Repository implements AuthRepository
var _ AuthRepository = (*Repository)(nil)
