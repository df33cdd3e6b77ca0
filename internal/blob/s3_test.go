package blob

import (
	"strings"
	"testing"
)

func TestNewStorageKey_UniquePerCall(t *testing.T) {
	k1 := NewStorageKey(7)
	k2 := NewStorageKey(7)

	if k1 == k2 {
		t.Fatal("storage keys must be unique")
	}
	if !strings.HasPrefix(k1, "users/7/") {
		t.Fatalf("key missing user prefix: %s", k1)
	}
}
