package admin

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"N100AA", 6},
		{strings.Repeat("a", 200), 200},
		{strings.Repeat("é", 201), 200},
		{"a" + strings.Repeat("é", 250), 200},
	}
	for _, tt := range tests {
		got := truncateRunes(tt.in, maxReprRunes)
		if !utf8.ValidString(got) {
			t.Errorf("truncateRunes(%q) is not valid UTF-8", tt.in)
		}
		if n := utf8.RuneCountInString(got); n != tt.want {
			t.Errorf("truncateRunes(%d runes) kept %d, want %d", utf8.RuneCountInString(tt.in), n, tt.want)
		}
		if !strings.HasPrefix(tt.in, got) {
			t.Errorf("truncateRunes(%q) = %q, not a prefix", tt.in, got)
		}
	}
}
