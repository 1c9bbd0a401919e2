// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration for the client (catalogctl)
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	CredentialsPath string
	Logging         LoggingConfig
	Policy          PolicyConfig
}

// ServerConfig holds configuration for the development server
type ServerConfig struct {
	Server   HTTPConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	Store    StoreConfig
	Database DatabaseConfig
	Policy   PolicyConfig
}

// HTTPConfig holds HTTP listener settings
type HTTPConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// StoreConfig selects the product storage driver
type StoreConfig struct {
	Driver string // "memory" or "mysql"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// PolicyConfig holds permission policy settings shared by client and server
type PolicyConfig struct {
	CreateRequiresAdmin bool
}

// Load reads client configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	baseURL := os.Getenv("CATALOG_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080" // default for local devserver
	}
	cfg.APIBaseURL = strings.TrimRight(baseURL, "/")

	timeoutStr := os.Getenv("CATALOG_REQUEST_TIMEOUT")
	if timeoutStr == "" {
		timeoutStr = "10s"
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	credPath := os.Getenv("CATALOG_CREDENTIALS_PATH")
	if credPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		credPath = filepath.Join(home, ".catalog-console", "credentials.json")
	}
	cfg.CredentialsPath = credPath

	cfg.Logging.Level = loadLogLevel()
	cfg.Policy.CreateRequiresAdmin = loadCreatePolicy()

	return cfg, nil
}

// LoadServer reads development server configuration from environment variables
func LoadServer() (*ServerConfig, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &ServerConfig{}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	cfg.Logging.Level = loadLogLevel()
	cfg.Policy.CreateRequiresAdmin = loadCreatePolicy()

	// JWT configuration
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = secret

	expiryStr := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")
	if expiryStr == "" {
		expiryStr = "1h"
	}
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.AccessTokenExpiry = expiry

	// Storage configuration
	driver := os.Getenv("STORE_DRIVER")
	if driver == "" {
		driver = "memory"
	}
	if driver != "memory" && driver != "mysql" {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: must be memory or mysql", driver)
	}
	cfg.Store.Driver = driver

	if driver == "mysql" {
		if err := loadDatabase(&cfg.Database); err != nil {
			return nil, err
		}
	}

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if corsOrigins == "" {
		// Default to allow all origins if not specified (for development)
		cfg.CORS.AllowedOrigins = []string{"*"}
	} else {
		// Parse comma-separated origins
		origins := strings.Split(corsOrigins, ",")
		cfg.CORS.AllowedOrigins = make([]string, 0, len(origins))
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, origin)
			}
		}
		if len(cfg.CORS.AllowedOrigins) == 0 {
			cfg.CORS.AllowedOrigins = []string{"*"}
		}
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *ServerConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&multiStatements=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// loadDatabase reads the required database settings
func loadDatabase(db *DatabaseConfig) error {
	db.Host = os.Getenv("DB_HOST")
	if db.Host == "" {
		return fmt.Errorf("DB_HOST is required when STORE_DRIVER=mysql")
	}

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "3306"
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	db.Port = dbPort

	db.User = os.Getenv("DB_USER")
	if db.User == "" {
		return fmt.Errorf("DB_USER is required when STORE_DRIVER=mysql")
	}

	db.Password = os.Getenv("DB_PASSWORD")
	if db.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when STORE_DRIVER=mysql")
	}

	db.DBName = os.Getenv("DB_NAME")
	if db.DBName == "" {
		return fmt.Errorf("DB_NAME is required when STORE_DRIVER=mysql")
	}

	return nil
}

// loadLogLevel reads the logging level with a default
func loadLogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info" // default level
	}
	return level
}

// loadCreatePolicy reads the create-gating policy flag.
// Product creation requires only an authenticated session by default; set
// CREATE_REQUIRES_ADMIN=true to gate creation on the admin role as well.
func loadCreatePolicy() bool {
	v := os.Getenv("CREATE_REQUIRES_ADMIN")
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}
