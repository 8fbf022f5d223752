package repository

import (
	"context"

	"wheelstrust/internal/domain"
)

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetAdmin retrieves the designated platform admin account.
	GetAdmin(ctx context.Context) (*domain.User, error)
}
