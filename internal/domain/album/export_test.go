package album

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/imaging"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
)

func decodedJPEG(t *testing.T, p *imaging.Processor) *imaging.DecodedImage {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		img.Set(x, x%30, color.RGBA{B: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := p.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return decoded
}

func testAlbum(t *testing.T, p *imaging.Processor, n int) *Album {
	t.Helper()
	photos := make([]*photo.Photo, n)
	for i := range photos {
		photos[i] = &photo.Photo{ID: uuid.New(), Name: "été.jpg", Payload: decodedJPEG(t, p)}
	}
	return &Album{
		ID:        uuid.New(),
		Title:     "Trip",
		Photos:    photos,
		CreatedAt: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
	}
}

func TestExportNothingToExport(t *testing.T) {
	e := NewExporter(imaging.NewProcessor(imaging.DefaultConfig()), ExporterConfig{})

	for _, a := range []*Album{nil, {Title: "Empty"}} {
		res, err := e.Export(context.Background(), a, locale.Default)
		if !errors.Is(err, ErrNothingToExport) {
			t.Fatalf("expected ErrNothingToExport, got %v", err)
		}
		if res != nil {
			t.Fatal("expected no document")
		}
	}
}

func TestExportPagination(t *testing.T) {
	proc := imaging.NewProcessor(imaging.DefaultConfig())
	e := NewExporter(proc, ExporterConfig{PhotosPerPage: 4})

	tests := []struct {
		photos     int
		photoPages int
	}{
		{1, 1},
		{4, 1},
		{5, 2},
		{9, 3},
	}

	for _, tt := range tests {
		res, err := e.Export(context.Background(), testAlbum(t, proc, tt.photos), locale.Default)
		if err != nil {
			t.Fatalf("%d photos: unexpected error: %v", tt.photos, err)
		}
		if res.PhotoPages != tt.photoPages || e.PhotoPages(tt.photos) != tt.photoPages {
			t.Fatalf("%d photos: expected %d photo pages, got %d", tt.photos, tt.photoPages, res.PhotoPages)
		}
		if res.PageCount != 1+tt.photoPages {
			t.Fatalf("%d photos: expected %d pages, got %d", tt.photos, 1+tt.photoPages, res.PageCount)
		}
		if res.Placed != tt.photos {
			t.Fatalf("%d photos: expected all placed, got %d", tt.photos, res.Placed)
		}
	}
}

func TestExportTripScenario(t *testing.T) {
	proc := imaging.NewProcessor(imaging.DefaultConfig())
	e := NewExporter(proc, ExporterConfig{})

	res, err := e.Export(context.Background(), testAlbum(t, proc, 5), locale.Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FileName != "Trip.pdf" {
		t.Fatalf("unexpected file name %q", res.FileName)
	}
	if res.PageCount != 3 {
		t.Fatalf("expected 1 title page + 2 photo pages, got %d", res.PageCount)
	}
	if !bytes.HasPrefix(res.Document, []byte("%PDF-")) {
		t.Fatal("document is not a PDF")
	}
}

func TestExportSkipsBrokenPhoto(t *testing.T) {
	proc := imaging.NewProcessor(imaging.DefaultConfig())
	e := NewExporter(proc, ExporterConfig{})

	a := testAlbum(t, proc, 5)
	a.Photos[2] = &photo.Photo{
		ID:      uuid.New(),
		Name:    "broken.jpg",
		Payload: &imaging.DecodedImage{Data: []byte("not a jpeg"), ContentType: "image/jpeg"},
	}

	res, err := e.Export(context.Background(), a, locale.Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Name != "broken.jpg" {
		t.Fatalf("expected broken.jpg to be skipped, got %+v", res.Skipped)
	}
	if res.Placed != 4 || res.PhotoPages != 1 {
		t.Fatalf("skipped photo took a slot: placed=%d pages=%d", res.Placed, res.PhotoPages)
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"Trip":        "Trip.pdf",
		"  Été 2026 ": "Été 2026.pdf",
		"a/b":         "a-b.pdf",
		"":            DefaultTitle + ".pdf",
	}
	for title, want := range tests {
		if got := FileName(title); got != want {
			t.Errorf("FileName(%q) = %q, want %q", title, got, want)
		}
	}
}

func TestNewExporterClampsCapacity(t *testing.T) {
	proc := imaging.NewProcessor(imaging.DefaultConfig())
	if got := NewExporter(proc, ExporterConfig{PhotosPerPage: 0}).PhotosPerPage(); got != DefaultPhotosPerPage {
		t.Fatalf("expected default capacity, got %d", got)
	}
	if got := NewExporter(proc, ExporterConfig{PhotosPerPage: 50}).PhotosPerPage(); got != maxPhotosPerPage {
		t.Fatalf("expected clamped capacity, got %d", got)
	}
}
