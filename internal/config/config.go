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

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	API      APIConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cookie   CookieConfig
	Cache    CacheConfig
	Log      LogConfig
}

// APIConfig holds the external backend settings
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	// AssetBaseURL prefixes relative image paths in production; empty keeps them relative
	AssetBaseURL string
}

// StorageConfig selects the key/value backend for sessions and store configuration
type StorageConfig struct {
	Driver string // memory, mysql or redis
	Secret string // non-empty enables encryption at rest
	// StoreConfigDefaults is an optional YAML file overriding the embedded defaults
	StoreConfigDefaults string
	SessionMaxAge       time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds redis configuration
type RedisConfig struct {
	URL string
}

// CookieConfig holds session cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// CacheConfig holds query cache freshness windows
type CacheConfig struct {
	ProductsStale time.Duration
	CartStale     time.Duration
	OrdersStale   time.Duration
	UsersStale    time.Duration
	ReportsStale  time.Duration
	GCTime        time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		API:      loadAPIConfig(),
		Storage:  loadStorageConfig(),
		Database: loadDatabaseConfig(appMode),
		Redis:    RedisConfig{URL: getEnv("REDIS_URL", "redis://localhost:6379/0")},
		Cookie:   loadCookieConfig(appMode),
		Cache:    loadCacheConfig(),
		Log:      loadLogConfig(appMode),
	}

	switch config.Storage.Driver {
	case "memory", "mysql", "redis":
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER: '%s' (must be 'memory', 'mysql' or 'redis')", config.Storage.Driver)
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func loadAPIConfig() APIConfig {
	return APIConfig{
		BaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		Timeout:       getDuration("API_TIMEOUT", 15*time.Second),
		UploadTimeout: getDuration("API_UPLOAD_TIMEOUT", 60*time.Second),
		AssetBaseURL:  strings.TrimRight(getEnv("ASSET_BASE_URL", ""), "/"),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:              strings.ToLower(getEnv("STORAGE_DRIVER", "memory")),
		Secret:              getEnv("STORAGE_SECRET", ""),
		StoreConfigDefaults: getEnv("STORE_CONFIG_DEFAULTS", ""),
		SessionMaxAge:       getDuration("SESSION_MAX_AGE", 7*24*time.Hour),
	}
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "tienda_console"),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		ProductsStale: getDuration("CACHE_PRODUCTS_STALE", time.Minute),
		CartStale:     getDuration("CACHE_CART_STALE", 15*time.Second),
		OrdersStale:   getDuration("CACHE_ORDERS_STALE", 20*time.Second),
		UsersStale:    getDuration("CACHE_USERS_STALE", time.Minute),
		ReportsStale:  getDuration("CACHE_REPORTS_STALE", 5*time.Minute),
		GCTime:        getDuration("CACHE_GC_TIME", 5*time.Minute),
	}
}

func loadLogConfig(mode string) LogConfig {
	format := "text"
	if mode == "prod" {
		format = "json"
	}
	return LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", format),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration ("15s") or plain seconds ("15")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: invalid duration for %s: %q, using %s", key, raw, defaultValue)
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://tienda.example.com"
	}
	return origins
}
