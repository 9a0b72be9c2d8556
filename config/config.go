package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port    string
	GinMode string

	CatalogSource  string
	CatalogCSVPath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ModelPath  string
	ScalerPath string

	EURToIDR    float64
	BrandStrict bool

	CORSOrigins []string
	MaxRetries  int

	SnapshotBaseURL     string
	SnapshotOutputDir   string
	SnapshotConcurrency int
	SnapshotRateLimitMs int
	ChromeBin           string
}

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),

		CatalogSource:  strings.ToLower(getEnv("CATALOG_SOURCE", SourceCSV)),
		CatalogCSVPath: getEnv("CATALOG_CSV_PATH", "./data/laptops.csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "laptops"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "laptops123"),
		PostgresDB:       getEnv("POSTGRES_DB", "laptop_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ModelPath:  getEnv("MODEL_PATH", "./data/model.json"),
		ScalerPath: getEnv("SCALER_PATH", "./data/scaler.json"),

		EURToIDR:    getEnvFloat("EUR_TO_IDR", 17000),
		BrandStrict: getEnvBool("BRAND_STRICT", true),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:8080"}),
		MaxRetries:  getEnvInt("MAX_RETRIES", 3),

		SnapshotBaseURL:     getEnv("SNAPSHOT_BASE_URL", "http://localhost:8080"),
		SnapshotOutputDir:   getEnv("SNAPSHOT_OUTPUT_DIR", "./output/snapshots"),
		SnapshotConcurrency: getEnvInt("SNAPSHOT_CONCURRENCY", 2),
		SnapshotRateLimitMs: getEnvInt("SNAPSHOT_RATE_LIMIT_MS", 500),
		ChromeBin:           getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
