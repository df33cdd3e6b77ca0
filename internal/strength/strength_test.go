package strength

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		password string
		want     Label
	}{
		{"", Weak},
		{"abc", Weak},            // one class, no length point
		{"ab1", Weak},            // two classes
		{"abcdefgh", Medium},     // one class + one length point, length 8
		{"Passw0r", Medium},      // three classes, short
		{"Abcdef12", Strong},     // three classes + one length point
		{"Abcdef12!@#$", Strong}, // four classes, length 12
		{"abcdefghijkl", Strong}, // length >= 12 alone
		{"Ab1!", Strong},         // four classes
	}

	for _, tc := range tests {
		if got := Score(tc.password); got != tc.want {
			t.Errorf("Score(%q) = %s, want %s", tc.password, got, tc.want)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Score("Tr0ub4dor&3"); got != Strong {
			t.Fatalf("Score changed between calls: %s", got)
		}
	}
}
