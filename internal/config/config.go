package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// Upstream reports API (booking / rentout / return channels)
	ReportsBaseURL string
	ReportsAPIKey  string
	ReportsTimeout time.Duration

	// Sync scheduling
	SyncCron      string        // cron expression for the auto sync run
	SyncCallPause time.Duration // pause between consecutive upstream calls
	BackfillDays  int           // historical window for a channel's first run

	// External SQL reporting mirror for archived leads
	ArchiveDriver string // "postgres" or "mysql", empty disables the mirror
	ArchiveDSN    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DB_NAME", "go-telecrm"),
		SkipAuth:       getEnv("SKIP_AUTH", "false") == "true",
		Environment:    getEnv("ENVIRONMENT", "development"),
		AppId:          getEnv("APP_ID", "go-telecrm"),
		ReportsBaseURL: getEnv("REPORTS_BASE_URL", "http://localhost:9090"),
		ReportsAPIKey:  getEnv("REPORTS_API_KEY", ""),
		ReportsTimeout: getDuration("REPORTS_TIMEOUT", 30*time.Second),
		SyncCron:       getEnv("SYNC_CRON", "0 */2 * * *"),
		SyncCallPause:  getDuration("SYNC_CALL_PAUSE", 500*time.Millisecond),
		BackfillDays:   getInt("SYNC_BACKFILL_DAYS", 180),
		ArchiveDriver:  getEnv("ARCHIVE_DRIVER", ""),
		ArchiveDSN:     getEnv("ARCHIVE_DSN", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
