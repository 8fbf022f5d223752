package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// Create persists a new booking. The unique index on payment_id turns a
// provider callback replay into ErrDuplicatePayment instead of a second row.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	services, err := json.Marshal(booking.Services)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bookings (id, service_provider_id, user_id, services, scheduled_date, scheduled_time,
			total_price_minor, currency, status, payment_id, order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.q.ExecContext(ctx, query,
		booking.ID,
		booking.ServiceProviderID,
		booking.UserID,
		services,
		booking.ScheduledDate,
		booking.ScheduledTime,
		booking.TotalPriceMinor,
		booking.Currency,
		booking.Status,
		booking.PaymentID,
		booking.OrderID,
		booking.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicatePayment
		}
		return err
	}

	return nil
}

// GetByPaymentID retrieves the booking recorded for a provider payment ID.
// Returns nil if no such booking exists.
func (r *BookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Booking, error) {
	booking, err := r.getOne(ctx, `WHERE payment_id = $1`, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

// GetByUser retrieves all bookings made by a user, newest first.
func (r *BookingRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	query := selectBookings + ` WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

const selectBookings = `
	SELECT id, service_provider_id, user_id, services, scheduled_date, scheduled_time,
		total_price_minor, currency, status, payment_id, order_id, created_at
	FROM bookings
`

func (r *BookingRepository) getOne(ctx context.Context, where string, args ...any) (*domain.Booking, error) {
	return scanBooking(r.q.QueryRowContext(ctx, selectBookings+" "+where, args...))
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var services []byte

	err := row.Scan(
		&booking.ID,
		&booking.ServiceProviderID,
		&booking.UserID,
		&services,
		&booking.ScheduledDate,
		&booking.ScheduledTime,
		&booking.TotalPriceMinor,
		&booking.Currency,
		&booking.Status,
		&booking.PaymentID,
		&booking.OrderID,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(services) > 0 {
		if err := json.Unmarshal(services, &booking.Services); err != nil {
			return nil, err
		}
	}

	return &booking, nil
}
