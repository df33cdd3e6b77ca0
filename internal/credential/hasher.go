// Package credential implements one-way password hashing and verification
// for account credentials using bcrypt with a fixed cost factor.
package credential

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dsavel/passvault/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt cost factor applied to every new hash.
const Cost = 12

// hashFormat is the structural shape of a valid bcrypt digest:
// algorithm tag, two-digit cost, then 53 chars of salt+digest.
var hashFormat = regexp.MustCompile(`^\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53}$`)

// Hash returns a bcrypt digest of password with a randomized salt.
// It never fails for non-empty input shorter than bcrypt's 72-byte limit.
func Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("empty password: %w", common.ErrValidation)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify compares password against a stored digest. It fails closed: a
// digest that does not match the expected structural format yields
// common.ErrCorruptCredential, so the caller can force re-registration
// instead of silently rejecting the login.
func Verify(password, digest string) error {
	if !hashFormat.MatchString(digest) {
		return common.ErrCorruptCredential
	}
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.ErrMismatch
		}
		return common.ErrCorruptCredential
	}
	return nil
}
