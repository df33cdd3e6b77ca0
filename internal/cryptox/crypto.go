// Package cryptox implements the symmetric crypto used by the vault:
// AES-256-GCM authenticated encryption plus Argon2id key derivation.
//
// Key scheme: every account owns a random 32-byte data key. The data key is
// wrapped with a key-encryption key (KEK) derived from the login password
// and a stored salt, and only the wrapped form is persisted. Secrets and
// file contents are encrypted with the data key, so a password change only
// re-wraps the data key and never re-encrypts the vault.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/dsavel/passvault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// KeyLength is the length of data keys and KEKs in bytes (AES-256).
	KeyLength = 32

	// NonceLength is the length of GCM nonces in bytes.
	NonceLength = 12

	// SaltLength is the length of KDF salts in bytes.
	SaltLength = 16

	// Argon2id parameters.
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// DeriveKEK derives a 256-bit key-encryption key from a password and salt
// using Argon2id. Deterministic for the same inputs.
func DeriveKEK(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argon2Time, argon2Memory, argon2Threads, KeyLength)
}

// NewSalt returns a fresh random KDF salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltLength)
}

// NewDataKey returns a fresh random 32-byte data key.
func NewDataKey() []byte {
	return common.GenerateRandByteArray(KeyLength)
}

// Encrypt encrypts plaintext with AES-256-GCM under key. A random 12-byte
// nonce is generated per call and returned alongside the ciphertext; the
// authentication tag is appended to the ciphertext by GCM.
func Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(NonceLength)
	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt decrypts ciphertext produced by Encrypt. If the ciphertext was
// truncated, tampered with, or encrypted under a different key, it returns
// common.ErrAuthenticationFailed and no plaintext at all.
func Decrypt(key, ciphertext, nonce []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != NonceLength {
		return nil, common.ErrAuthenticationFailed
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// WrapKey encrypts dataKey under kek. The result is what gets persisted in
// account_keys.
func WrapKey(kek, dataKey []byte) (wrapped, nonce []byte, err error) {
	return Encrypt(kek, dataKey)
}

// UnwrapKey recovers the data key wrapped by WrapKey. A wrong password
// (hence a wrong KEK) surfaces as common.ErrAuthenticationFailed.
func UnwrapKey(kek, wrapped, nonce []byte) ([]byte, error) {
	return Decrypt(kek, wrapped, nonce)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("cryptox: invalid key length %d: %w", len(key), common.ErrValidation)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
