package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultAPIURL is the document service address used when nothing else is configured.
const DefaultAPIURL = "http://localhost:8080"

// Supported metadata store drivers.
const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Driver             string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	BadgerDir          string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the configuration of the validocd reference server.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	LogLevel       string
	Timezone       string
	UploadMaxBytes int
	Database       DatabaseConfig
	MinIO          MinIOConfig
}

// ClientConfig is the configuration of the validoc command-line client.
// Command-line flags override these values.
type ClientConfig struct {
	APIURL      string
	HTTPTimeout time.Duration
	LogLevel    string
	Timezone    string
}

// Load reads the server configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		UploadMaxBytes: getEnvInt("UPLOAD_MAX_BYTES", 50<<20),
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", DriverPostgres),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			BadgerDir:          getEnv("BADGER_DIR", "data/badger"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// LoadClient reads the client configuration from environment variables.
func LoadClient() *ClientConfig {
	return &ClientConfig{
		APIURL:      getEnv("VALIDOC_API_URL", DefaultAPIURL),
		HTTPTimeout: time.Duration(getEnvInt("VALIDOC_HTTP_TIMEOUT_SEC", 0)) * time.Second,
		LogLevel:    getEnv("LOG_LEVEL", "warn"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
	}
}

// Location resolves name to a time zone, falling back to UTC.
func Location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
