package credential

import (
	"errors"
	"testing"

	"github.com/dsavel/passvault/internal/common"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	digest, err := Hash("Sup3rSecret!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if err := Verify("Sup3rSecret!", digest); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
}

func TestHash_RandomizedSalt(t *testing.T) {
	d1, err := Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	d2, err := Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if d1 == d2 {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	if _, err := Hash(""); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestVerify_Mismatch(t *testing.T) {
	digest, err := Hash("password-one")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if err := Verify("password-two", digest); !errors.Is(err, common.ErrMismatch) {
		t.Fatalf("want ErrMismatch, got %v", err)
	}
}

func TestVerify_CorruptDigest(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$1$10$abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyza", // wrong algorithm tag
		"$2b$12$tooshort",
	}
	for _, digest := range cases {
		if err := Verify("whatever", digest); !errors.Is(err, common.ErrCorruptCredential) {
			t.Fatalf("digest %q: want ErrCorruptCredential, got %v", digest, err)
		}
	}
}
