package models

import "time"

// Expiration alert statuses.
const (
	AlertStatusExpired      = "Expired"
	AlertStatusExpiringSoon = "Expiring Soon"
)

// ExpirationAlert is derived state: a pure function of the owner's secrets
// with non-null expiration dates and the evaluation instant. Rows are
// deleted and recomputed wholesale on every evaluation pass.
type ExpirationAlert struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	SecretID       int64     `json:"password_id"`
	Service        string    `json:"service"`
	ExpirationDate time.Time `json:"expiration_date"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Notification is a user-facing message produced when an alert is raised.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
