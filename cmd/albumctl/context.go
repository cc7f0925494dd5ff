package main

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"

	"github.com/SamTheHermit/AlbumPhoto/internal/config"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/album"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/session"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/imaging"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/logger"
)

// systemClipboard copies through the desktop clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

type commandContext struct {
	logLevel  string
	localeTag string
	clipboard album.Clipboard
	loadCfg   func() *config.Config

	logCloser io.Closer
}

func newCommandContext() *commandContext {
	return &commandContext{
		clipboard: systemClipboard{},
		loadCfg:   config.Load,
	}
}

func (c *commandContext) initLogging(env string) error {
	closer, err := logger.Init(logger.Config{Level: c.logLevel, Environment: env})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.logCloser = closer
	return nil
}

func (c *commandContext) close() {
	if c.logCloser != nil {
		c.logCloser.Close()
	}
}

// newSession wires a headless session: the same album core the API serves,
// without a notifier.
func (c *commandContext) newSession(cfg *config.Config, cb album.Clipboard) (*session.Session, error) {
	processor := imaging.NewProcessor(imaging.Config{
		ThumbWidth:  cfg.ThumbWidth,
		ThumbHeight: cfg.ThumbHeight,
		Quality:     cfg.JPEGQuality,
	})

	linker, err := album.NewShareLinker(cfg.PublicURL)
	if err != nil {
		return nil, err
	}

	loc := locale.Parse(cfg.DefaultLocale)
	if c.localeTag != "" {
		loc = locale.Parse(c.localeTag)
	}

	deps := session.Deps{
		Ingester: photo.NewIngester(processor, photo.IngesterConfig{
			MaxFileSize:   cfg.MaxUploadSize,
			MaxBatchFiles: cfg.MaxBatchFiles,
			Concurrency:   cfg.DecodeConcurrency,
		}),
		Builder:   album.NewBuilder(album.BuilderConfig{DefaultTitle: cfg.DefaultAlbumTitle}),
		Exporter:  album.NewExporter(processor, album.ExporterConfig{PhotosPerPage: cfg.PhotosPerPage}),
		Linker:    linker,
		Clipboard: cb,
	}
	return session.New(deps, loc), nil
}
