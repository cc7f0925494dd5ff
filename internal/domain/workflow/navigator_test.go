package workflow

import (
	"errors"
	"testing"
)

func TestNavigatorStartsOnUpload(t *testing.T) {
	if got := New().Current(); got != StageUpload {
		t.Fatalf("expected upload stage, got %s", got)
	}
}

func TestGoToOrganize(t *testing.T) {
	n := New()

	if err := n.GoToOrganize(0); !errors.Is(err, ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
	if n.Current() != StageUpload {
		t.Fatalf("blocked transition changed stage to %s", n.Current())
	}

	if err := n.GoToOrganize(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Current() != StageOrganize {
		t.Fatalf("expected organize, got %s", n.Current())
	}
}

func TestGoToFinalRequiresAlbum(t *testing.T) {
	n := New()
	if err := n.GoToFinal(0); !errors.Is(err, ErrNoAlbum) {
		t.Fatalf("expected ErrNoAlbum, got %v", err)
	}
	if err := n.GoToFinal(3); err != nil || n.Current() != StageFinal {
		t.Fatalf("expected final stage, got %s (%v)", n.Current(), err)
	}
}

func TestReset(t *testing.T) {
	tests := []struct {
		name      string
		dirty     bool
		confirmed bool
		wantErr   error
		wantStage Stage
	}{
		{"clean state needs no confirmation", false, false, nil, StageUpload},
		{"dirty state declined", true, false, ErrConfirmationRequired, StageFinal},
		{"dirty state confirmed", true, true, nil, StageUpload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New()
			_ = n.GoToFinal(1)

			err := n.Reset(tt.dirty, tt.confirmed)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if n.Current() != tt.wantStage {
				t.Fatalf("expected %s, got %s", tt.wantStage, n.Current())
			}
		})
	}
}

func TestCanBuild(t *testing.T) {
	n := New()
	if err := n.CanBuild(0); !errors.Is(err, ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
	if err := n.CanBuild(2); !errors.Is(err, ErrNotOrganizing) {
		t.Fatalf("expected ErrNotOrganizing from upload, got %v", err)
	}

	if err := n.GoToOrganize(2); err != nil {
		t.Fatalf("organize: %v", err)
	}
	if err := n.CanBuild(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := n.GoToFinal(2); err != nil {
		t.Fatalf("final: %v", err)
	}
	if err := n.CanBuild(2); !errors.Is(err, ErrNotOrganizing) {
		t.Fatalf("expected ErrNotOrganizing from final, got %v", err)
	}
}
