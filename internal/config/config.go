package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type Config struct {
	HTTPAddr string

	// Storage
	StorageBackend string
	InventoryFile  string
	DatabaseDSN    string
	SQLitePath     string
	RunMigrations  bool
	SeedOnStart    bool

	// Empty disables event publishing.
	RabbitMQURL string

	LogLevel  string
	LogPretty bool

	CORSAllowOrigins []string
}

// Load reads the environment, after merging in a .env file when one exists.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		StorageBackend: strings.ToLower(getenv("STORAGE_BACKEND", BackendFile)),
		InventoryFile:  getenv("INVENTORY_FILE", "inventory.json"),
		DatabaseDSN:    getenv("DATABASE_DSN", ""),
		SQLitePath:     getenv("SQLITE_PATH", "inventory.db"),
		RunMigrations:  getbool("RUN_MIGRATIONS", true),
		SeedOnStart:    getbool("SEED_ON_START", true),

		RabbitMQURL: getenv("RABBITMQ_URL", ""),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogPretty: getbool("LOG_PRETTY", true),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}

	switch cfg.StorageBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseDSN == "" {
			return Config{}, fmt.Errorf("DATABASE_DSN is required for the %s backend", BackendPostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getbool(k string, def bool) bool {
	b, err := strconv.ParseBool(getenv(k, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
