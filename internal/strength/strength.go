// Package strength classifies password quality. The label is derived state:
// it is recomputed on every secret write and never accepted from a caller.
package strength

import (
	"strings"
	"unicode"
)

// Label is a password quality classification.
type Label string

const (
	Weak   Label = "Weak"
	Medium Label = "Medium"
	Strong Label = "Strong"
)

const specialChars = `!@#$%^&*(),.?":{}|<>`

// Score classifies a password deterministically from its length and the
// character classes it contains. One point per class present (uppercase,
// lowercase, digit, special) plus one point per 8 characters of length.
// 4+ points or length 12+ is Strong; 3+ points or length 8+ is Medium.
func Score(password string) Label {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	length := len(password)
	points := length / 8
	for _, present := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if present {
			points++
		}
	}

	switch {
	case points >= 4 || length >= 12:
		return Strong
	case points >= 3 || length >= 8:
		return Medium
	default:
		return Weak
	}
}
