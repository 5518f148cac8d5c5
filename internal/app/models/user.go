package models

import "time"

// UserStatus is the account status reported alongside a login
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User is the identity echoed back to a client after it logs in to a node
type User struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Role           Role       `json:"role"`
	Status         UserStatus `json:"status"`
	LastActive     time.Time  `json:"lastActive"`
	RecentActivity string     `json:"recentActivity,omitempty"`
}
