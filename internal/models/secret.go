package models

import (
	"time"

	"github.com/dsavel/passvault/internal/strength"
)

// Secret is a stored service password. The value is envelope-encrypted with
// the owner's data key before it reaches the repository; Value carries the
// plaintext only in memory and is never persisted.
type Secret struct {
	ID             int64          `json:"id"`
	UserID         int64          `json:"user_id"`
	Service        string         `json:"service"`
	Username       string         `json:"username"`
	Value          string         `json:"-"`
	EncryptedValue []byte         `json:"-"`
	Nonce          []byte         `json:"-"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Strength       strength.Label `json:"password_strength"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// File is an encrypted file stored in the vault. Ciphertext lives either
// inline or, when StorageKey is set, in the configured blob store.
type File struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	FileName      string    `json:"file_name"`
	Ciphertext    []byte    `json:"-"`
	Nonce         []byte    `json:"-"`
	StorageKey    string    `json:"storage_key,omitempty"`
	PlaintextSize int64     `json:"file_size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
