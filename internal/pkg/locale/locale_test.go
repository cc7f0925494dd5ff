package locale

import (
	"testing"
	"time"
)

func TestPhotoCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 photo"},
		{1, "1 photo"},
		{2, "2 photos"},
		{5, "5 photos"},
	}
	for _, tt := range tests {
		if got := Default.PhotoCount(tt.n); got != tt.want {
			t.Errorf("PhotoCount(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFrenchLabels(t *testing.T) {
	created := time.Date(2026, time.October, 8, 14, 0, 0, 0, time.UTC)

	if got := Default.CreatedOn(created); got != "Créé le 08/10/2026" {
		t.Fatalf("unexpected created label %q", got)
	}
	if got := Default.OrganizeLabel(3); got != "Organiser l'album (3 photos)" {
		t.Fatalf("unexpected organize label %q", got)
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	created := time.Date(2026, time.October, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header keeps fallback", "", "08/10/2026"},
		{"us english", "en-US,en;q=0.9", "10/8/2026"},
		{"german", "de-DE", "8.10.2026"},
		{"garbage keeps fallback", ";;;", "08/10/2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := FromAcceptLanguage(tt.header, Default)
			if got := l.Date(created); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseFallsBackToDefault(t *testing.T) {
	if got := Parse("???").Tag(); got != Default.Tag() {
		t.Fatalf("expected default tag, got %s", got)
	}
}
