package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wheelstrust/internal/domain"
	"wheelstrust/internal/repository"
)

// CarRepository is a PostgreSQL implementation of repository.CarRepository.
type CarRepository struct {
	q Querier
}

// NewCarRepository creates a new PostgreSQL car repository.
func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{q: db}
}

// NewCarRepositoryWithTx creates a car repository using a transaction.
func NewCarRepositoryWithTx(tx *sql.Tx) *CarRepository {
	return &CarRepository{q: tx}
}

// GetByID retrieves a car by ID.
func (r *CarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `
		SELECT id, seller_id, make, model, year, price_minor, currency, status, sold_to, sold_at, created_at
		FROM cars WHERE id = $1
	`

	car, err := scanCar(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return car, nil
}

// GetAll retrieves cars, optionally filtered by status.
func (r *CarRepository) GetAll(ctx context.Context, status domain.CarStatus) ([]*domain.Car, error) {
	query := `
		SELECT id, seller_id, make, model, year, price_minor, currency, status, sold_to, sold_at, created_at
		FROM cars
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []*domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}

	return cars, rows.Err()
}

// MarkSold atomically transitions a car to sold. The status guard makes the
// update safe against replays and concurrent completions: only one request
// can ever observe a row transition here.
func (r *CarRepository) MarkSold(ctx context.Context, id, buyerID string, soldAt time.Time) error {
	query := `
		UPDATE cars
		SET status = $1, sold_to = $2, sold_at = $3
		WHERE id = $4 AND status <> $1
	`

	result, err := r.q.ExecContext(ctx, query, domain.CarStatusSold, buyerID, soldAt, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Either the car does not exist or it is already sold.
		var status domain.CarStatus
		err := r.q.QueryRowContext(ctx, `SELECT status FROM cars WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}
		return repository.ErrAlreadySold
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*domain.Car, error) {
	var car domain.Car
	var soldTo sql.NullString
	var soldAt sql.NullTime

	err := row.Scan(
		&car.ID,
		&car.SellerID,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.PriceMinor,
		&car.Currency,
		&car.Status,
		&soldTo,
		&soldAt,
		&car.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if soldTo.Valid {
		car.SoldTo = soldTo.String
	}
	if soldAt.Valid {
		car.SoldAt = soldAt.Time
	}

	return &car, nil
}
