package domain

import "time"

// BookingStatus represents the current status of a service booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookedService is one line item of a service booking.
type BookedService struct {
	Name       string `json:"name"`
	PriceMinor int64  `json:"price"`
	Duration   string `json:"duration"`
}

// Booking represents a confirmed service appointment with a provider.
// PaymentID is unique per booking; it is the idempotency key for
// provider callback replays.
type Booking struct {
	ID                string
	ServiceProviderID string
	UserID            string
	Services          []BookedService
	ScheduledDate     string // "2006-01-02"
	ScheduledTime     string // "15:04"
	TotalPriceMinor   int64
	Currency          string
	Status            BookingStatus
	PaymentID         string
	OrderID           string
	CreatedAt         time.Time
}
