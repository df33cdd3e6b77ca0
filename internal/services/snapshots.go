package services

import (
	"time"

	"github.com/dsavel/passvault/internal/models"
	"github.com/dsavel/passvault/internal/strength"
)

// Backup snapshots must round-trip the whole row, including the encrypted
// material that the models deliberately keep out of their JSON form (audit
// details use that form). These DTOs carry the full state; the bytes inside
// are ciphertext, so the snapshot store learns nothing it could read.

type secretSnapshot struct {
	ID             int64          `json:"id"`
	UserID         int64          `json:"user_id"`
	Service        string         `json:"service"`
	Username       string         `json:"username"`
	EncryptedValue []byte         `json:"encrypted_value"`
	Nonce          []byte         `json:"nonce"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Strength       strength.Label `json:"password_strength"`
	CreatedAt      time.Time      `json:"created_at"`
}

func snapshotSecret(s *models.Secret) *secretSnapshot {
	return &secretSnapshot{
		ID:             s.ID,
		UserID:         s.UserID,
		Service:        s.Service,
		Username:       s.Username,
		EncryptedValue: s.EncryptedValue,
		Nonce:          s.Nonce,
		ExpirationDate: s.ExpirationDate,
		Strength:       s.Strength,
		CreatedAt:      s.CreatedAt,
	}
}

func (snap *secretSnapshot) toModel() *models.Secret {
	return &models.Secret{
		ID:             snap.ID,
		UserID:         snap.UserID,
		Service:        snap.Service,
		Username:       snap.Username,
		EncryptedValue: snap.EncryptedValue,
		Nonce:          snap.Nonce,
		ExpirationDate: snap.ExpirationDate,
		Strength:       snap.Strength,
		CreatedAt:      snap.CreatedAt,
	}
}

type fileSnapshot struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	FileName      string    `json:"file_name"`
	Ciphertext    []byte    `json:"ciphertext,omitempty"`
	Nonce         []byte    `json:"nonce"`
	StorageKey    string    `json:"storage_key,omitempty"`
	PlaintextSize int64     `json:"file_size"`
	CreatedAt     time.Time `json:"created_at"`
}

func snapshotFile(f *models.File) *fileSnapshot {
	return &fileSnapshot{
		ID:            f.ID,
		UserID:        f.UserID,
		FileName:      f.FileName,
		Ciphertext:    f.Ciphertext,
		Nonce:         f.Nonce,
		StorageKey:    f.StorageKey,
		PlaintextSize: f.PlaintextSize,
		CreatedAt:     f.CreatedAt,
	}
}

func (snap *fileSnapshot) toModel() *models.File {
	return &models.File{
		ID:            snap.ID,
		UserID:        snap.UserID,
		FileName:      snap.FileName,
		Ciphertext:    snap.Ciphertext,
		Nonce:         snap.Nonce,
		StorageKey:    snap.StorageKey,
		PlaintextSize: snap.PlaintextSize,
		CreatedAt:     snap.CreatedAt,
	}
}
