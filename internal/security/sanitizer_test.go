package security

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"strips html", "<script>alert(1)</script>hi", "hi"},
		{"strips tags keeps text", "<b>bold</b> move", "bold move"},
		{"trims whitespace", "  padded  ", "padded"},
		{"removes null bytes", "a\x00b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTextCapsLength(t *testing.T) {
	long := strings.Repeat("a", 2000)
	if got := SanitizeText(long); len(got) != 1000 {
		t.Errorf("len = %d, want 1000", len(got))
	}
}

func TestValidatePlayerName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"normal", "alice", true},
		{"two runes", "ab", true},
		{"one rune", "a", false},
		{"empty", "", false},
		{"hundred runes", strings.Repeat("x", 100), true},
		{"too long", strings.Repeat("x", 101), false},
		{"multibyte counts runes", strings.Repeat("ü", 100), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePlayerName(tt.input); got != tt.want {
				t.Errorf("ValidatePlayerName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
