package album

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/metrics"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/imaging"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
)

// Page geometry in millimetres (A4 portrait).
const (
	pageHeight   = 297.0
	marginTop    = 20.0
	marginLeft   = 20.0
	columnStep   = 95.0
	photoWidth   = 80.0
	photoHeight  = 60.0
	captionShift = 65.0

	titleFontSize   = 24
	descFontSize    = 12
	summaryFontSize = 10
	captionFontSize = 8

	fontFamily = "Helvetica"
)

// DefaultPhotosPerPage is the page capacity used when none is configured.
const DefaultPhotosPerPage = 4

const maxPhotosPerPage = 6

// Printer turns a decoded photo into JPEG bytes that can be embedded in a
// document.
type Printer interface {
	PrintableJPEG(img *imaging.DecodedImage) ([]byte, error)
}

// ExporterConfig configures document export
type ExporterConfig struct {
	PhotosPerPage int
}

// ExportResult is a produced document ready for download.
type ExportResult struct {
	Document   []byte
	FileName   string
	PageCount  int // read back from Document
	PhotoPages int
	Placed     int
	Skipped    []photo.Rejection
}

// Exporter renders albums as paginated PDF documents.
type Exporter struct {
	printer       Printer
	photosPerPage int
}

// NewExporter creates document exporter
func NewExporter(printer Printer, config ExporterConfig) *Exporter {
	perPage := config.PhotosPerPage
	if perPage <= 0 {
		perPage = DefaultPhotosPerPage
	}
	if perPage > maxPhotosPerPage {
		perPage = maxPhotosPerPage
	}

	api.DisableConfigDir()

	return &Exporter{
		printer:       printer,
		photosPerPage: perPage,
	}
}

// PhotosPerPage returns the page capacity in use.
func (e *Exporter) PhotosPerPage() int {
	return e.photosPerPage
}

// Export renders a title page followed by photo pages. A photo that cannot
// be embedded is skipped and reported; it does not take a slot.
func (e *Exporter) Export(ctx context.Context, a *Album, loc locale.Locale) (*ExportResult, error) {
	if a == nil || len(a.Photos) == 0 {
		return nil, ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(a.Title, true)
	pdf.SetCreationDate(a.CreatedAt)
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Title page
	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", titleFontSize)
	pdf.Text(marginLeft, 30, tr(a.Title))

	if a.Description != "" {
		pdf.SetFont(fontFamily, "", descFontSize)
		pdf.Text(marginLeft, 45, tr(a.Description))
	}

	pdf.SetFont(fontFamily, "", summaryFontSize)
	summary := fmt.Sprintf("%d photos - %s", len(a.Photos), loc.CreatedOn(a.CreatedAt))
	pdf.Text(marginLeft, 60, tr(summary))

	if !pdf.Ok() {
		return nil, e.fail(a, pdf.Error())
	}

	result := &ExportResult{FileName: FileName(a.Title)}
	onPage := e.photosPerPage // forces a page before the first photo
	rowStep := (pageHeight - 2*marginTop) / float64((e.photosPerPage+1)/2)

	for i, p := range a.Photos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := e.printer.PrintableJPEG(p.Payload)
		if err != nil {
			result.Skipped = append(result.Skipped, e.skip(a, p, err))
			continue
		}

		imageName := fmt.Sprintf("photo-%d", i)
		pdf.RegisterImageOptionsReader(imageName, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(data))
		if !pdf.Ok() {
			err := pdf.Error()
			pdf.ClearError()
			result.Skipped = append(result.Skipped, e.skip(a, p, err))
			continue
		}

		if onPage >= e.photosPerPage {
			pdf.AddPage()
			result.PhotoPages++
			onPage = 0
		}

		x := marginLeft + float64(onPage%2)*columnStep
		y := marginTop + float64(onPage/2)*rowStep

		pdf.ImageOptions(imageName, x, y, photoWidth, photoHeight, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
		pdf.SetFont(fontFamily, "", captionFontSize)
		pdf.Text(x, y+captionShift, tr(p.Name))

		onPage++
		result.Placed++
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, e.fail(a, err)
	}
	result.Document = buf.Bytes()

	pages, err := api.PageCount(bytes.NewReader(result.Document), readBackConfig())
	if err != nil {
		log.Warn().Err(err).Str("album_id", a.ID.String()).Msg("Failed to read back exported document")
		pages = pdf.PageCount()
	}
	result.PageCount = pages

	outcome := "ok"
	if len(result.Skipped) > 0 {
		outcome = "partial"
	}
	metrics.Exports.WithLabelValues(outcome).Inc()
	metrics.ExportPages.Observe(float64(result.PageCount))

	log.Info().
		Str("album_id", a.ID.String()).
		Int("pages", result.PageCount).
		Int("placed", result.Placed).
		Int("skipped", len(result.Skipped)).
		Msg("PDF generated successfully")

	return result, nil
}

// PhotoPages returns the number of photo pages needed for n photos.
func (e *Exporter) PhotoPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + e.photosPerPage - 1) / e.photosPerPage
}

// FileName derives the download name of an album document.
func FileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = DefaultTitle
	}
	return name + ".pdf"
}

func (e *Exporter) skip(a *Album, p *photo.Photo, err error) photo.Rejection {
	log.Warn().
		Err(err).
		Str("album_id", a.ID.String()).
		Str("photo_id", p.ID.String()).
		Str("name", p.Name).
		Msg("Failed to add photo to PDF")
	return photo.Rejection{Name: p.Name, Reason: photo.ReasonDecodeFailed, Detail: err.Error()}
}

func (e *Exporter) fail(a *Album, cause error) error {
	metrics.Exports.WithLabelValues("failed").Inc()
	log.Error().Err(cause).Str("album_id", a.ID.String()).Msg("Failed to generate PDF")
	return fmt.Errorf("%w: %w", ErrExportFailed, cause)
}

func readBackConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
