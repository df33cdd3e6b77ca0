package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/dsavel/passvault/internal/common"
	"github.com/dsavel/passvault/internal/models"
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = `!@#$%^&*(),.?":{}|<>`
)

// GeneratePassword produces a random password honoring the account's stored
// policy preferences. Each required character class is guaranteed at least
// one position.
func (s *Vault) GeneratePassword(ctx context.Context, userID int64) (string, error) {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return "", err
	}
	return generateFromPolicy(prefs)
}

func generateFromPolicy(prefs *models.Preferences) (string, error) {
	length := prefs.PasswordLength
	if length < 4 {
		return "", fmt.Errorf("%w: password length %d too short", common.ErrValidation, length)
	}

	alphabet := lowerChars
	var required []string
	if prefs.RequireUppercase {
		alphabet += upperChars
		required = append(required, upperChars)
	}
	if prefs.RequireNumbers {
		alphabet += digitChars
		required = append(required, digitChars)
	}
	if prefs.RequireSpecialChars {
		alphabet += specialChars
		required = append(required, specialChars)
	}

	out := make([]byte, length)
	for i := range out {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	// Pin one character of each required class at distinct random positions.
	positions := make([]int, length)
	for i := range positions {
		positions[i] = i
	}
	for i := length - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		positions[i], positions[j] = positions[j], positions[i]
	}
	for i, class := range required {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out[positions[i]] = c
	}

	return string(out), nil
}

func randomChar(alphabet string) (byte, error) {
	i, err := randomIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[i], nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("random source: %w", err)
	}
	return int(v.Int64()), nil
}
