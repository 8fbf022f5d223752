package repository

import (
	"context"
	"time"

	"wheelstrust/internal/domain"
)

// CarRepository defines the persistence operations for car listings.
type CarRepository interface {
	// GetByID retrieves a car by ID.
	GetByID(ctx context.Context, id string) (*domain.Car, error)

	// GetAll retrieves cars, optionally filtered by status.
	// An empty status returns every listing.
	GetAll(ctx context.Context, status domain.CarStatus) ([]*domain.Car, error)

	// MarkSold atomically transitions a car to sold, recording the buyer
	// and sale time. The update is conditional on the car not already
	// being sold: a lost race or replay returns ErrAlreadySold, a missing
	// car returns ErrNotFound.
	MarkSold(ctx context.Context, id, buyerID string, soldAt time.Time) error
}
