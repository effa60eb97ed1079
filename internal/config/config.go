package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv              string
	LogLevel            slog.Level
	ApiServicePort      string
	ShutdownTimeout     int64 // Graceful shutdown timeout in seconds
	PostgreSQLHost      string
	PostgreSQLPort      int64
	PostgreSQLUser      string
	PostgreSQLPassword  string
	PostgreSQLDatabase  string
	RedisHost           string
	RedisPort           int64
	RedisPassword       string
	RedisDatabase       int64
	SessionSecret       string
	SessionTTL          int64 // Session lifetime in seconds
	SessionCookieName   string
	SessionCookieSecure bool
	MaxPDFSize          int64
	MaxImageSize        int64
	DailyUploadLimit    int64 // 0 disables the limit
	LibraryCacheTTL     int64 // List cache TTL in seconds
	StorageEndpoint     string
	StorageAccessKey    string
	StorageSecretKey    string
	StorageBucket       string
	StorageUseSSL       bool
	StoragePublicURL    string
}

// fileConfig mirrors the subset of settings that may come from a YAML file.
// Environment variables always take precedence over the file.
type fileConfig struct {
	AppEnv           string `yaml:"appEnv"`
	LogLevel         string `yaml:"logLevel"`
	Port             string `yaml:"port"`
	PostgreSQLHost   string `yaml:"postgresqlHost"`
	PostgreSQLPort   int64  `yaml:"postgresqlPort"`
	PostgreSQLUser   string `yaml:"postgresqlUser"`
	PostgreSQLDB     string `yaml:"postgresqlDatabase"`
	RedisHost        string `yaml:"redisHost"`
	RedisPort        int64  `yaml:"redisPort"`
	SessionTTL       int64  `yaml:"sessionTTL"`
	MaxPDFSize       int64  `yaml:"maxPdfSize"`
	MaxImageSize     int64  `yaml:"maxImageSize"`
	DailyUploadLimit int64  `yaml:"dailyUploadLimit"`
	LibraryCacheTTL  int64  `yaml:"libraryCacheTTL"`
	StorageEndpoint  string `yaml:"storageEndpoint"`
	StorageBucket    string `yaml:"storageBucket"`
	StorageUseSSL    bool   `yaml:"storageUseSSL"`
	StoragePublicURL string `yaml:"storagePublicURL"`
}

func LoadConfig() *Config {
	file, err := loadFileConfig(os.Getenv("NOTED_CONFIG_FILE"))
	if err != nil {
		// Logger is not configured yet
		fmt.Fprintf(os.Stderr, "⚠️ [Config] Ignoring config file: %v\n", err)
		file = fileConfig{}
	}

	return &Config{
		AppEnv:              getEnv("APP_ENV", or(file.AppEnv, "development")),
		LogLevel:            getLogLevel(or(file.LogLevel, "INFO")),
		ApiServicePort:      getEnv("API_SERVICE_PORT", or(file.Port, "8080")),
		ShutdownTimeout:     getEnvAsInt64("SHUTDOWN_TIMEOUT", 15),
		PostgreSQLHost:      getEnv("POSTGRESQL_HOST", or(file.PostgreSQLHost, "db")),
		PostgreSQLPort:      getEnvAsInt64("POSTGRESQL_PORT", orInt(file.PostgreSQLPort, 5432)),
		PostgreSQLUser:      getEnv("POSTGRESQL_USER", or(file.PostgreSQLUser, "noted_user")),
		PostgreSQLPassword:  getEnv("POSTGRESQL_PASSWORD", "noted_password"),
		PostgreSQLDatabase:  getEnv("POSTGRESQL_DATABASE", or(file.PostgreSQLDB, "noted_db")),
		RedisHost:           getEnv("REDIS_HOST", or(file.RedisHost, "redis")),
		RedisPort:           getEnvAsInt64("REDIS_PORT", orInt(file.RedisPort, 6379)),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDatabase:       getEnvAsInt64("REDIS_DATABASE", 0),
		SessionSecret:       getEnv("SESSION_SECRET", "noted_secret"),
		SessionTTL:          getEnvAsInt64("SESSION_TTL", orInt(file.SessionTTL, 604800)),
		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "noted.session_token"),
		SessionCookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", false),
		MaxPDFSize:          getEnvAsInt64("MAX_PDF_SIZE", orInt(file.MaxPDFSize, 32*1024*1024)),
		MaxImageSize:        getEnvAsInt64("MAX_IMAGE_SIZE", orInt(file.MaxImageSize, 4*1024*1024)),
		DailyUploadLimit:    getEnvAsInt64("DAILY_UPLOAD_LIMIT", orInt(file.DailyUploadLimit, 50)),
		LibraryCacheTTL:     getEnvAsInt64("LIBRARY_CACHE_TTL", orInt(file.LibraryCacheTTL, 300)),
		StorageEndpoint:     getEnv("STORAGE_ENDPOINT", or(file.StorageEndpoint, "minio:9000")),
		StorageAccessKey:    getEnv("STORAGE_ACCESS_KEY", "noted"),
		StorageSecretKey:    getEnv("STORAGE_SECRET_KEY", "noted_storage_secret"),
		StorageBucket:       getEnv("STORAGE_BUCKET", or(file.StorageBucket, "noted-books")),
		StorageUseSSL:       getEnvAsBool("STORAGE_USE_SSL", file.StorageUseSSL),
		StoragePublicURL:    getEnv("STORAGE_PUBLIC_URL", file.StoragePublicURL),
	}
}

func loadFileConfig(path string) (fileConfig, error) {
	cfg := fileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(strings.TrimSpace(valueStr)); err == nil {
			return value
		}
	}
	return fallback
}

func getLogLevel(fallback string) slog.Level {
	levelStr := getEnv("LOG_LEVEL", fallback)

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orInt(value, fallback int64) int64 {
	if value != 0 {
		return value
	}
	return fallback
}

// RedisAddr returns the host:port pair for the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.AppEnv) == "production"
}
