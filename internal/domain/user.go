package domain

import "time"

// UserRole distinguishes regular marketplace users from platform admins.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents a marketplace account (buyer, seller, provider owner or admin).
type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	CreatedAt time.Time
}
