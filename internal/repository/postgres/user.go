package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, email, role, created_at
		FROM users WHERE id = $1
	`

	return r.getOne(ctx, query, id)
}

// GetAdmin retrieves the designated platform admin account.
func (r *UserRepository) GetAdmin(ctx context.Context) (*domain.User, error) {
	query := `
		SELECT id, name, email, role, created_at
		FROM users WHERE role = $1
		ORDER BY created_at
		LIMIT 1
	`

	return r.getOne(ctx, query, domain.RoleAdmin)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	err := r.q.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}
