package storage

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	ctx := context.Background()

	location, err := s.Save(ctx, "Trip.pdf", strings.NewReader("%PDF-1.3"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(location)
	if err != nil || string(data) != "%PDF-1.3" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}

	ok, err := s.Exists(ctx, "Trip.pdf")
	if err != nil || !ok {
		t.Fatalf("expected file to exist (%v)", err)
	}

	info, err := s.GetInfo(ctx, "Trip.pdf")
	if err != nil || info.Size != int64(len("%PDF-1.3")) {
		t.Fatalf("unexpected info %+v (%v)", info, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected no temporary files left, got %d entries", len(entries))
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	for _, key := range []string{"", "..", "../escape.pdf", "a/b.pdf"} {
		if _, err := s.Save(context.Background(), key, strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}
