// Package auth provides authentication and account provisioning.
// This file defines the public API of the auth bounded context.
// Only types and interfaces defined here should be imported by other domains.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents user information that can be shared with other domains.
type Profile struct {
	ID        uuid.UUID
	Email     string
	Nome      *string
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
