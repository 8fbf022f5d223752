package repository

import (
	"context"

	"wheelstrust/internal/domain"
)

// ServiceProviderRepository defines the persistence operations for providers.
type ServiceProviderRepository interface {
	// GetByID retrieves a service provider by ID.
	GetByID(ctx context.Context, id string) (*domain.ServiceProvider, error)
}
