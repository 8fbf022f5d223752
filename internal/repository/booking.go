package repository

import (
	"context"

	"wheelstrust/internal/domain"
)

// BookingRepository defines the persistence operations for service bookings.
type BookingRepository interface {
	// Create persists a new booking. A booking whose payment ID was
	// already recorded returns ErrDuplicatePayment.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByPaymentID retrieves the booking recorded for a provider
	// payment ID. Returns nil if no such booking exists.
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error)

	// GetByUser retrieves all bookings made by a user, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
}
