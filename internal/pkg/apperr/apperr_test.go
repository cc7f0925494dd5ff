package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	errNoFiles := New(KindValidation, "NO_VALID_FILES", "no files")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"sentinel", errNoFiles, KindValidation},
		{"wrapped", fmt.Errorf("ingest: %w", errNoFiles), KindValidation},
		{"joined with cause", fmt.Errorf("%w: %w", errNoFiles, errors.New("boom")), KindValidation},
		{"plain", errors.New("boom"), KindUnhandled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAsKeepsSentinelIdentity(t *testing.T) {
	sentinel := New(KindExport, "EXPORT_FAILED", "export failed")
	err := fmt.Errorf("%w: %w", sentinel, errors.New("disk full"))

	got, ok := As(err)
	if !ok || got != sentinel {
		t.Fatalf("expected sentinel, got %#v", got)
	}
	if !errors.Is(err, sentinel) {
		t.Fatal("expected errors.Is to match sentinel")
	}
}
