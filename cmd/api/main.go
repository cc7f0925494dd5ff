package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/config"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/album"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/session"
	"github.com/SamTheHermit/AlbumPhoto/internal/middleware"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/imaging"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/logger"
	pkgresponse "github.com/SamTheHermit/AlbumPhoto/internal/pkg/response"
)

func main() {
	cfg := config.Load()

	logCloser, err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer logCloser.Close()

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting photo album API")

	a, err := newApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build application")
	}
	go a.hub.Run()

	evictCtx, stopEviction := context.WithCancel(context.Background())
	defer stopEviction()
	go a.sessions.Run(evictCtx, 0)
	go a.exportLimiter.Run(evictCtx, 0)

	// No WriteTimeout: websocket streams and large exports outlive it
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.hub.Shutdown()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

type app struct {
	router        http.Handler
	hub           *session.Hub
	sessions      *session.Manager
	exportLimiter *middleware.RateLimiter
}

// newApp wires the album components and the router. The caller runs the hub.
func newApp(cfg *config.Config) (*app, error) {
	// ---------- Album components ----------
	processor := imaging.NewProcessor(imaging.Config{
		ThumbWidth:  cfg.ThumbWidth,
		ThumbHeight: cfg.ThumbHeight,
		Quality:     cfg.JPEGQuality,
	})

	linker, err := album.NewShareLinker(cfg.PublicURL)
	if err != nil {
		return nil, err
	}

	// ---------- WebSocket hub ----------
	hub := session.NewHub()

	deps := session.Deps{
		Ingester: photo.NewIngester(processor, photo.IngesterConfig{
			MaxFileSize:   cfg.MaxUploadSize,
			MaxBatchFiles: cfg.MaxBatchFiles,
			Concurrency:   cfg.DecodeConcurrency,
		}),
		Builder: album.NewBuilder(album.BuilderConfig{
			DefaultTitle: cfg.DefaultAlbumTitle,
			Delay:        cfg.BuildDelay,
		}),
		Exporter:  album.NewExporter(processor, album.ExporterConfig{PhotosPerPage: cfg.PhotosPerPage}),
		Linker:    linker,
		Clipboard: album.ClientClipboard{},
		Notifier:  hub,
	}

	sessions := session.NewManager(deps, cfg.SessionTTL)

	sessionHandler := session.NewHandler(sessions, hub, session.HandlerConfig{
		MaxUploadSize:  cfg.MaxUploadSize * int64(cfg.MaxBatchFiles),
		DefaultLocale:  locale.Parse(cfg.DefaultLocale),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	exportLimiter := middleware.NewRateLimiter(cfg.ExportRateLimit, cfg.ExportRateBurst)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]interface{}{
			"status":   "ok",
			"version":  "1.0.0",
			"sessions": sessions.Len(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", album.Bootstrap)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/sessions", sessionHandler.Routes(exportLimiter.Handler))
	})

	return &app{router: r, hub: hub, sessions: sessions, exportLimiter: exportLimiter}, nil
}
