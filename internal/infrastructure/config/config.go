package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config містить конфігурацію сервісу
type Config struct {
	// Server
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	// Logging & metrics
	LogLevel         string
	MetricsNamespace string

	// Store
	SeedMissions bool

	// PostgreSQL, порожній DSN вимикає збереження
	DatabaseURL string

	// MinIO, порожній endpoint вимикає знімки
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Remote mission service, порожня адреса вимикає запасне завантаження
	RemoteMissionsURL string
	RemoteTimeout     time.Duration
}

// LoadConfig завантажує конфігурацію з .env та змінних оточення
func LoadConfig() (*Config, error) {
	// .env необов'язковий
	_ = godotenv.Load()

	config := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:     time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:    time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT", 30)) * time.Second,
		AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "drone_survey"),

		SeedMissions: getEnvAsBool("SEED_MISSIONS", true),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "mission-snapshots"),
		MinioUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),

		RemoteMissionsURL: strings.TrimRight(getEnv("REMOTE_MISSIONS_URL", ""), "/"),
		RemoteTimeout:     time.Duration(getEnvAsInt("REMOTE_TIMEOUT", 5)) * time.Second,
	}

	return config, nil
}

// PersistenceEnabled повідомляє, чи налаштовано PostgreSQL
func (c *Config) PersistenceEnabled() bool {
	return c.DatabaseURL != ""
}

// SnapshotsEnabled повідомляє, чи налаштовано MinIO
func (c *Config) SnapshotsEnabled() bool {
	return c.MinioEndpoint != ""
}

// RemoteFetchEnabled повідомляє, чи налаштовано віддалений сервіс місій
func (c *Config) RemoteFetchEnabled() bool {
	return c.RemoteMissionsURL != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
