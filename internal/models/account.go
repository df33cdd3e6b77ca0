// Package models defines the persistent entities of the vault. Field sets
// mirror the database schema; JSON tags are the serialization format for
// audit details and backup snapshots.
package models

import "time"

// Account is a registered user. PasswordHash is a bcrypt digest and is the
// only credential material ever stored; it changes exclusively through the
// change-password flow.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountKey is the durable, owner-scoped encryption key record: a random
// data key wrapped with a KEK derived from the login password and Salt.
type AccountKey struct {
	UserID     int64
	Salt       []byte
	WrappedKey []byte
	Nonce      []byte
}

// Profile holds contact details for an account.
type Profile struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// Settings holds per-account UI-facing toggles. Created atomically with the
// Account row with these defaults: dark mode off, notifications on.
type Settings struct {
	UserID               int64 `json:"user_id"`
	DarkMode             bool  `json:"dark_mode"`
	NotificationsEnabled bool  `json:"notifications_enabled"`
}

// Preferences holds password-policy preferences. Created atomically with the
// Account row.
type Preferences struct {
	UserID                int64  `json:"user_id"`
	PasswordLength        int    `json:"password_length"`
	AutoLockTimeout       int    `json:"auto_lock_timeout"` // minutes
	RequireUppercase      bool   `json:"require_uppercase"`
	RequireNumbers        bool   `json:"require_numbers"`
	RequireSpecialChars   bool   `json:"require_special_chars"`
	DefaultSharingMethod  string `json:"default_sharing_method"` // qr_code or secure_link
	PasswordCheckInterval int    `json:"password_check_interval"` // days
}

// DefaultSettings returns the settings provisioned at signup.
func DefaultSettings(userID int64) *Settings {
	return &Settings{UserID: userID, DarkMode: false, NotificationsEnabled: true}
}

// DefaultPreferences returns the preferences provisioned at signup.
func DefaultPreferences(userID int64) *Preferences {
	return &Preferences{
		UserID:                userID,
		PasswordLength:        16,
		AutoLockTimeout:       10,
		RequireUppercase:      true,
		RequireNumbers:        true,
		RequireSpecialChars:   true,
		DefaultSharingMethod:  SharingMethodQRCode,
		PasswordCheckInterval: 30,
	}
}

// Sharing methods accepted in Preferences.DefaultSharingMethod.
const (
	SharingMethodQRCode     = "qr_code"
	SharingMethodSecureLink = "secure_link"
)
