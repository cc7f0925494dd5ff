package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Public origin + path used to build share links
	PublicURL string

	// CORS
	AllowedOrigins []string

	// Ingestion
	MaxUploadSize     int64
	MaxBatchFiles     int
	DecodeConcurrency int
	ThumbWidth        int
	ThumbHeight       int
	JPEGQuality       int

	// Album
	DefaultAlbumTitle string
	DefaultLocale     string
	BuildDelay        time.Duration

	// Export
	PhotosPerPage   int
	ExportRateLimit float64 // requests per second per client IP
	ExportRateBurst int

	// Sessions
	SessionTTL time.Duration

	// Logging
	LogLevel string
	LogFile  string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		PublicURL: strings.TrimSpace(getEnv("PUBLIC_URL", "http://localhost:8080/")),

		// CORS
		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		// Ingestion
		MaxUploadSize:     parseInt64(getEnv("MAX_UPLOAD_SIZE", "10485760"), 10*1024*1024),
		MaxBatchFiles:     parseInt(getEnv("MAX_BATCH_FILES", "100"), 100),
		DecodeConcurrency: parseInt(getEnv("DECODE_CONCURRENCY", "4"), 4),
		ThumbWidth:        parseInt(getEnv("THUMB_WIDTH", "300"), 300),
		ThumbHeight:       parseInt(getEnv("THUMB_HEIGHT", "300"), 300),
		JPEGQuality:       parseInt(getEnv("JPEG_QUALITY", "85"), 85),

		// Album
		DefaultAlbumTitle: getEnv("DEFAULT_ALBUM_TITLE", "Mon album photo"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "fr-FR"),
		BuildDelay:        parseDuration(getEnv("BUILD_DELAY", "0s"), 0),

		// Export
		PhotosPerPage:   parseInt(getEnv("PHOTOS_PER_PAGE", "4"), 4),
		ExportRateLimit: parseFloat(getEnv("EXPORT_RATE_LIMIT", "1"), 1),
		ExportRateBurst: parseInt(getEnv("EXPORT_RATE_BURST", "3"), 3),

		// Sessions
		SessionTTL: parseDuration(getEnv("SESSION_TTL", "2h"), 2*time.Hour),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "debug"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func parseInt64(s string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func parseFloat(s string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
