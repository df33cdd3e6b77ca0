// Package common defines shared constants and sentinel errors used across
// the PassVault engine. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrNotFoundOrUnauthorized is returned when a row does not exist or
	// belongs to a different owner. The two cases are deliberately
	// indistinguishable so that existence cannot be probed.
	ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")

	// Validation / identity errors (caller's fault, never retried).
	ErrValidation        = errors.New("validation error")
	ErrDuplicateIdentity = errors.New("username or email already exists")

	// ErrWeakPassword means a new login password fails the signup policy:
	// at least 8 characters with an uppercase letter and a digit.
	ErrWeakPassword = errors.New("password is too weak")

	// Authentication errors.
	ErrMismatch = errors.New("invalid username or password")

	// ErrCorruptCredential means the stored password hash fails its
	// structural check. This is distinct from a mismatch: the account must
	// be re-registered, silently rejecting would mask the corruption.
	ErrCorruptCredential = errors.New("stored credential is corrupt")

	// Crypto errors. Decryption never falls back to plaintext.
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")

	// Store errors.
	ErrTransientStore = errors.New("transient store error")
	ErrIntegrity      = errors.New("integrity violation")

	// ErrConfirmationRequired is returned by destructive operations when the
	// caller did not pass an explicit confirmation flag.
	ErrConfirmationRequired = errors.New("confirmation required")

	// Session / token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrInternal = errors.New("internal error")
)
