package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	PayrollAPI PayrollAPIConfig
	Catalog    CatalogConfig
	Drafts     DraftConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds the secret used to verify caller tokens
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// PayrollAPIConfig describes the upstream payroll REST API.
// ClientID/ClientSecret/TokenURL are optional service credentials used when
// no caller token is available to forward.
type PayrollAPIConfig struct {
	BaseURL      string
	Timeout      time.Duration
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

type CatalogConfig struct {
	TTL time.Duration
}

// DraftConfig selects where in-progress onboarding sessions are kept.
type DraftConfig struct {
	Store         string // memory, postgres or sqlite
	EncryptionKey string
	SQLitePath    string
	// Drafts untouched for longer than Retention are purged every PurgeInterval.
	// A zero Retention disables the purge job.
	Retention     time.Duration
	PurgeInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll-onboarding"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	apiTimeout, err := time.ParseDuration(getEnv("PAYROLL_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_API_TIMEOUT: %w", err)
	}

	config.PayrollAPI = PayrollAPIConfig{
		BaseURL:      strings.TrimRight(getEnv("PAYROLL_API_BASE_URL", ""), "/"),
		Timeout:      apiTimeout,
		ClientID:     getEnv("PAYROLL_API_CLIENT_ID", ""),
		ClientSecret: getEnv("PAYROLL_API_CLIENT_SECRET", ""),
		TokenURL:     getEnv("PAYROLL_API_TOKEN_URL", ""),
		Scopes:       getEnvSlice("PAYROLL_API_SCOPES"),
	}

	catalogTTL, err := time.ParseDuration(getEnv("CATALOG_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_TTL: %w", err)
	}
	config.Catalog = CatalogConfig{TTL: catalogTTL}

	retention, err := time.ParseDuration(getEnv("DRAFT_RETENTION", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DRAFT_RETENTION: %w", err)
	}
	purgeInterval, err := time.ParseDuration(getEnv("DRAFT_PURGE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DRAFT_PURGE_INTERVAL: %w", err)
	}

	config.Drafts = DraftConfig{
		Store:         getEnv("DRAFT_STORE", "memory"),
		EncryptionKey: getEnv("DRAFT_ENCRYPTION_KEY", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/drafts.db"),
		Retention:     retention,
		PurgeInterval: purgeInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.PayrollAPI.BaseURL == "" {
		return fmt.Errorf("PAYROLL_API_BASE_URL is required")
	}
	if c.PayrollAPI.ClientID != "" && c.PayrollAPI.TokenURL == "" {
		return fmt.Errorf("PAYROLL_API_TOKEN_URL is required when PAYROLL_API_CLIENT_ID is set")
	}

	switch c.Drafts.Store {
	case "memory":
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for postgres draft store")
		}
	case "sqlite":
		if c.Drafts.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for sqlite draft store")
		}
	default:
		return fmt.Errorf("unsupported DRAFT_STORE: %s", c.Drafts.Store)
	}

	if c.Drafts.Retention > 0 && c.Drafts.PurgeInterval <= 0 {
		return fmt.Errorf("DRAFT_PURGE_INTERVAL must be positive when DRAFT_RETENTION is set")
	}

	if c.Drafts.Store != "memory" && c.Drafts.EncryptionKey == "" {
		return fmt.Errorf("DRAFT_ENCRYPTION_KEY is required for persistent draft stores")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
