package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short text unchanged", "hello there", "hello there"},
		{"surrounding whitespace trimmed", "  hi  ", "hi"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.in); got != tt.want {
				t.Errorf("preview(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPreview_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", threadPreviewLen+200)
	got := preview(long)
	if len(got) != threadPreviewLen {
		t.Errorf("preview length = %d, want %d", len(got), threadPreviewLen)
	}
}

func TestPreview_TruncatesOnRuneBoundary(t *testing.T) {
	// Two-byte runes that do not divide the limit evenly force a cut inside
	// a rune unless the truncation backs up to a boundary.
	long := "a" + strings.Repeat("é", threadPreviewLen)
	got := preview(long)
	if !utf8.ValidString(got) {
		t.Errorf("truncated preview is not valid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) > threadPreviewLen {
		t.Errorf("preview length = %d, want at most %d", len(got), threadPreviewLen)
	}
	if len(got) < threadPreviewLen-utf8.UTFMax {
		t.Errorf("preview length = %d, cut more than one rune below the limit", len(got))
	}
}
