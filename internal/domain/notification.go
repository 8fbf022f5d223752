package domain

import "time"

// NotificationType represents the category of an in-app notification.
type NotificationType string

const (
	NotificationPurchase NotificationType = "purchase"
	NotificationSale     NotificationType = "sale"
	NotificationBooking  NotificationType = "booking"
	NotificationSystem   NotificationType = "system"
)

// Notification is an in-app notification record for a single user.
type Notification struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Type        NotificationType
	Read        bool
	CreatedAt   time.Time
}
