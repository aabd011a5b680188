package utils

import (
	"testing"
)

func TestGeneratePIN(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		pin, err := GeneratePIN()
		if err != nil {
			t.Fatalf("GeneratePIN: %v", err)
		}
		if len(pin) != 4 {
			t.Fatalf("pin %q has length %d, want 4", pin, len(pin))
		}
		for _, c := range pin {
			if c < '0' || c > '9' {
				t.Fatalf("pin %q contains non-digit %q", pin, c)
			}
		}
		seen[pin] = true
	}

	// 100 draws from 10000 values collapsing to one would mean a broken source.
	if len(seen) < 2 {
		t.Error("expected some variety across generated pins")
	}
}

func TestVerifyPIN(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		provided string
		want     bool
	}{
		{"match", "0042", "0042", true},
		{"mismatch", "0042", "0024", false},
		{"length mismatch", "0042", "042", false},
		{"empty provided", "0042", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPIN(tt.stored, tt.provided); got != tt.want {
				t.Errorf("VerifyPIN(%q, %q) = %v, want %v", tt.stored, tt.provided, got, tt.want)
			}
		})
	}
}
