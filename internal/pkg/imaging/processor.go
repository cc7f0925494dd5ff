package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxFileSize in bytes (10MB)
const MaxFileSize int64 = 10 * 1024 * 1024

var ErrEmptyImage = errors.New("image is empty")

// DecodedImage is a self-contained displayable image. It owns its bytes and
// does not depend on the handle it was read from. Never mutated once built.
type DecodedImage struct {
	Data        []byte // displayable bytes (jpeg, png or gif)
	ContentType string
	Width       int
	Height      int
	Thumbnail   []byte // jpeg
	ThumbWidth  int
	ThumbHeight int
}

// DataURL embeds the image in a data: URL.
func (d *DecodedImage) DataURL() string {
	return "data:" + d.ContentType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// Config for image processing
type Config struct {
	ThumbWidth  int // Thumbnail width (default 300)
	ThumbHeight int // Thumbnail height (default 300)
	Quality     int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		ThumbWidth:  300,
		ThumbHeight: 300,
		Quality:     85,
	}
}

// Processor decodes uploaded images into displayable form
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	def := DefaultConfig()
	if config.ThumbWidth <= 0 {
		config.ThumbWidth = def.ThumbWidth
	}
	if config.ThumbHeight <= 0 {
		config.ThumbHeight = def.ThumbHeight
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = def.Quality
	}
	return &Processor{config: config}
}

// Decode reads an image and builds its displayable form and thumbnail.
// Formats browsers cannot show inline (bmp, tiff) are re-encoded as JPEG.
func (p *Processor) Decode(reader io.Reader) (*DecodedImage, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	result := &DecodedImage{
		Data:        data,
		ContentType: mimeFromFormat(format),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}

	if !displayable(format) {
		encoded, err := p.encodeJPEG(img)
		if err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		result.Data = encoded
		result.ContentType = "image/jpeg"
	}

	thumb := imaging.Fill(img, p.config.ThumbWidth, p.config.ThumbHeight, imaging.Center, imaging.Lanczos)
	result.ThumbWidth = thumb.Bounds().Dx()
	result.ThumbHeight = thumb.Bounds().Dy()

	thumbnail, err := p.encodeJPEG(thumb)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	result.Thumbnail = thumbnail

	return result, nil
}

// PrintableJPEG fully decodes img and returns JPEG bytes suitable for
// embedding in a document. JPEG sources are returned as-is once they decode.
func (p *Processor) PrintableJPEG(img *DecodedImage) ([]byte, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	decoded, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.ContentType == "image/jpeg" {
		return img.Data, nil
	}

	flat := imaging.New(decoded.Bounds().Dx(), decoded.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, decoded, image.Pt(0, 0), 1.0)
	return p.encodeJPEG(flat)
}

// IsImageMediaType reports whether a media type is any image/* type.
func IsImageMediaType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), "image/")
}

func (p *Processor) encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.config.Quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func displayable(format string) bool {
	switch format {
	case "jpeg", "png", "gif":
		return true
	default:
		return false
	}
}

func mimeFromFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}
