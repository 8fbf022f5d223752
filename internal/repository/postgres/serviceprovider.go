package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/repository"
)

// ServiceProviderRepository is a PostgreSQL implementation of
// repository.ServiceProviderRepository.
type ServiceProviderRepository struct {
	q Querier
}

// NewServiceProviderRepository creates a new PostgreSQL provider repository.
func NewServiceProviderRepository(db *sql.DB) *ServiceProviderRepository {
	return &ServiceProviderRepository{q: db}
}

// GetByID retrieves a service provider by ID.
func (r *ServiceProviderRepository) GetByID(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	query := `
		SELECT id, owner_id, name, created_at
		FROM service_providers WHERE id = $1
	`

	var provider domain.ServiceProvider
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&provider.ID,
		&provider.OwnerID,
		&provider.Name,
		&provider.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &provider, nil
}
