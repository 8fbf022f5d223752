package domain

import "time"

// ServiceProvider represents a garage or service business listed on the
// platform. OwnerID references the user who receives booking notifications.
type ServiceProvider struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
}
