package slug_test

import (
	"testing"

	"curriculum/internal/slug"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "abcXYZ123_", "abcXYZ123_"},
		{"punctuation runs", ", 'A[]\nB#$_", "_A_B_"},
		{"spaces", "Hello World", "Hello_World"},
		{"trailing run kept", "Loops!!", "Loops_"},
		{"leading run kept", "  intro", "_intro"},
		{"empty", "", ""},
		{"only separators", "-- --", "_"},
		{"non ascii letters are separators", "Café au lait", "Caf_au_lait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slug.Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Intro to Go",
		", 'A[]\nB#$_",
		"__x__y__",
		"über/straße 2",
		"\t\n",
	}
	for _, in := range inputs {
		once := slug.Normalize(in)
		if twice := slug.Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
