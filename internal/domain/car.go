package domain

import (
	"fmt"
	"time"
)

// CarStatus represents the current listing status of a car.
type CarStatus string

const (
	CarStatusAvailable CarStatus = "available"
	CarStatusPending   CarStatus = "pending"
	CarStatusSold      CarStatus = "sold"
)

// Car represents a car listing in the marketplace.
type Car struct {
	ID         string
	SellerID   string
	Make       string
	Model      string
	Year       int
	PriceMinor int64 // Price in minor currency units (paise).
	Currency   string
	Status     CarStatus
	SoldTo     string    // Buyer user ID, empty until sold.
	SoldAt     time.Time // Zero until sold.
	CreatedAt  time.Time
}

// Description returns the human-readable listing description used in
// notifications and emails, e.g. "2019 Honda City".
func (c *Car) Description() string {
	return fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
}
