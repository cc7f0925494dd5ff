package photo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/SamTheHermit/AlbumPhoto/internal/metrics"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/imaging"
)

const sniffLen = 512

// CandidateFile is a file offered for ingestion, from a drop or a picker.
type CandidateFile struct {
	Name      string
	MediaType string
	Size      int64
	Open      func() (io.ReadCloser, error)
}

// FromMultipart wraps an uploaded multipart file.
func FromMultipart(fh *multipart.FileHeader) CandidateFile {
	return CandidateFile{
		Name:      filepath.Base(fh.Filename),
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromPath wraps a file on disk. The media type is guessed from the extension.
func FromPath(path string) (CandidateFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return CandidateFile{}, err
	}
	if info.IsDir() {
		return CandidateFile{}, fmt.Errorf("%s is a directory", path)
	}
	return CandidateFile{
		Name:      filepath.Base(path),
		MediaType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Size:      info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Rejection names a file kept out of the collection and why.
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// IngestResult is the outcome of one batch. Photos keep the input order.
type IngestResult struct {
	Photos   []*Photo
	Rejected []Rejection
	Failed   []Rejection
}

// Decoder turns raw image bytes into a displayable image.
type Decoder interface {
	Decode(r io.Reader) (*imaging.DecodedImage, error)
}

// IngesterConfig configures the ingestion filter
type IngesterConfig struct {
	MaxFileSize   int64
	MaxBatchFiles int
	Concurrency   int
}

// Ingester filters candidate files and decodes the admitted ones.
type Ingester struct {
	decoder Decoder
	config  IngesterConfig
	newID   func() uuid.UUID
}

// NewIngester creates ingestion filter
func NewIngester(decoder Decoder, config IngesterConfig) *Ingester {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = imaging.MaxFileSize
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	return &Ingester{
		decoder: decoder,
		config:  config,
		newID:   uuid.New,
	}
}

// Ingest admits image files no larger than the size limit and decodes them
// concurrently. It never touches a collection: the caller appends the result.
func (i *Ingester) Ingest(ctx context.Context, files []CandidateFile) (*IngestResult, error) {
	log.Debug().Int("files", len(files)).Msg("Processing files")

	if i.config.MaxBatchFiles > 0 && len(files) > i.config.MaxBatchFiles {
		return nil, ErrTooManyFiles
	}

	result := &IngestResult{}
	admitted := make([]CandidateFile, 0, len(files))
	for _, f := range files {
		if reason, detail := i.admit(&f); reason != "" {
			log.Warn().Str("file", f.Name).Str("reason", reason).Str("detail", detail).Msg("File rejected")
			metrics.FilesRejected.WithLabelValues(reason).Inc()
			result.Rejected = append(result.Rejected, Rejection{Name: f.Name, Reason: reason, Detail: detail})
			continue
		}
		admitted = append(admitted, f)
	}

	if len(admitted) == 0 {
		return result, ErrNoValidFiles
	}
	metrics.FilesAdmitted.Add(float64(len(admitted)))

	start := time.Now()
	photos := make([]*Photo, len(admitted))
	failures := make([]error, len(admitted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.config.Concurrency)
	for idx, f := range admitted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			payload, err := i.decode(f)
			if err != nil {
				failures[idx] = err
				return nil
			}
			photos[idx] = &Photo{
				ID:      i.newID(),
				Name:    f.Name,
				Payload: payload,
				Source:  FileRef{Name: f.Name, MediaType: f.MediaType, Size: f.Size},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	metrics.DecodeDuration.Observe(time.Since(start).Seconds())

	for idx, p := range photos {
		if p != nil {
			result.Photos = append(result.Photos, p)
			continue
		}
		name := admitted[idx].Name
		log.Warn().Err(failures[idx]).Str("file", name).Msg("Failed to decode file")
		metrics.FilesRejected.WithLabelValues(ReasonDecodeFailed).Inc()
		result.Failed = append(result.Failed, Rejection{Name: name, Reason: ReasonDecodeFailed, Detail: failures[idx].Error()})
	}

	if len(result.Photos) == 0 {
		return result, ErrNoDecodableFiles
	}

	log.Info().
		Int("decoded", len(result.Photos)).
		Int("rejected", len(result.Rejected)).
		Int("failed", len(result.Failed)).
		Msg("Successfully processed photos")

	return result, nil
}

// admit returns an empty reason when f passes the filter. Missing or
// generic media types are sniffed from content.
func (i *Ingester) admit(f *CandidateFile) (reason, detail string) {
	if f.MediaType == "" || f.MediaType == "application/octet-stream" {
		sniffed, err := sniff(f)
		if err != nil {
			return ReasonUnreadable, err.Error()
		}
		f.MediaType = sniffed
	}
	if !imaging.IsImageMediaType(f.MediaType) {
		return ReasonNotImage, f.MediaType
	}
	if f.Size > i.config.MaxFileSize {
		return ReasonTooLarge, fmt.Sprintf("%d bytes", f.Size)
	}
	return "", ""
}

func (i *Ingester) decode(f CandidateFile) (*imaging.DecodedImage, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("no content")
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// The declared size is not trusted on its own.
	data, err := io.ReadAll(io.LimitReader(rc, i.config.MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > i.config.MaxFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", i.config.MaxFileSize)
	}
	return i.decoder.Decode(bytes.NewReader(data))
}

func sniff(f *CandidateFile) (string, error) {
	if f.Open == nil {
		return "", fmt.Errorf("no content")
	}
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	mediaType := http.DetectContentType(head[:n])
	if idx := strings.Index(mediaType, ";"); idx != -1 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	return mediaType, nil
}
