package config

import (
	"crypto/sha256"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	DatabasePath  string `json:"database_path"`
	APIPort       string `json:"api_port"`
	LogLevel      string `json:"log_level"`
	DataDir       string `json:"data_dir"`
	JWTSecret     string `json:"jwt_secret"`
	EncryptionKey string `json:"encryption_key"` // key for encrypting Gmail tokens at rest
	CORSOrigins   string `json:"cors_origins"`   // comma separated, * for all

	// Google OAuth client used both for sign-in verification and the
	// Gmail send grant.
	GoogleClientID     string `json:"google_client_id"`
	GoogleClientSecret string `json:"google_client_secret"`
	GoogleRedirectURL  string `json:"google_redirect_url"`

	// Cloudinary credentials for resume storage.
	CloudinaryCloudName string `json:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `json:"cloudinary_api_key"`
	CloudinaryAPISecret string `json:"cloudinary_api_secret"`

	// DailyQuota caps sends per account per calendar day.
	DailyQuota int `json:"daily_quota"`
	// SendDelayMs is the pause between consecutive bulk dispatches.
	SendDelayMs int `json:"send_delay_ms"`
}

// Default configuration values
const (
	DefaultDatabasePath = "data/jobreach.db"
	DefaultAPIPort      = "8080"
	DefaultLogLevel     = "INFO"
	DefaultDataDir      = "data"
	DefaultJWTSecret    = "jobreach-default-secret-change-in-production"
	DefaultCORSOrigins  = "*"
	DefaultDailyQuota   = 500
	DefaultSendDelayMs  = 1000
)

// Load loads configuration from environment variables and config file
// Priority: Environment variables > Config file > Default values
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath: DefaultDatabasePath,
		APIPort:      DefaultAPIPort,
		LogLevel:     DefaultLogLevel,
		DataDir:      DefaultDataDir,
		JWTSecret:    DefaultJWTSecret,
		CORSOrigins:  DefaultCORSOrigins,
		DailyQuota:   DefaultDailyQuota,
		SendDelayMs:  DefaultSendDelayMs,
	}

	// Config file is optional
	_ = cfg.loadFromFile()

	// Override with environment variables
	cfg.loadFromEnv()

	return cfg, nil
}

// loadFromFile loads configuration from config.json file
func (c *Config) loadFromFile() error {
	// Look for config file in current directory and data directory
	configPaths := []string{
		"config.json",
		filepath.Join(c.DataDir, "config.json"),
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := json.Unmarshal(data, c); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if val := os.Getenv("JOBREACH_DATABASE_PATH"); val != "" {
		c.DatabasePath = val
	}
	if val := os.Getenv("JOBREACH_API_PORT"); val != "" {
		c.APIPort = val
	}
	if val := os.Getenv("JOBREACH_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("JOBREACH_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("JOBREACH_JWT_SECRET"); val != "" {
		c.JWTSecret = val
	}
	if val := os.Getenv("JOBREACH_ENCRYPTION_KEY"); val != "" {
		c.EncryptionKey = val
	}
	if val := os.Getenv("JOBREACH_CORS_ORIGINS"); val != "" {
		c.CORSOrigins = val
	}
	if val := os.Getenv("GOOGLE_CLIENT_ID"); val != "" {
		c.GoogleClientID = val
	}
	if val := os.Getenv("GOOGLE_CLIENT_SECRET"); val != "" {
		c.GoogleClientSecret = val
	}
	if val := os.Getenv("GOOGLE_REDIRECT_URL"); val != "" {
		c.GoogleRedirectURL = val
	}
	if val := os.Getenv("CLOUDINARY_CLOUD_NAME"); val != "" {
		c.CloudinaryCloudName = val
	}
	if val := os.Getenv("CLOUDINARY_API_KEY"); val != "" {
		c.CloudinaryAPIKey = val
	}
	if val := os.Getenv("CLOUDINARY_API_SECRET"); val != "" {
		c.CloudinaryAPISecret = val
	}
	if val := os.Getenv("JOBREACH_DAILY_QUOTA"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			c.DailyQuota = n
		}
	}
	if val := os.Getenv("JOBREACH_SEND_DELAY_MS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			c.SendDelayMs = n
		}
	}
}

// GetEncryptionKey returns the key for encrypting Gmail tokens at rest
// If EncryptionKey is set, use it; otherwise derive from JWTSecret
func (c *Config) GetEncryptionKey() []byte {
	if c.EncryptionKey != "" {
		hash := sha256.Sum256([]byte(c.EncryptionKey))
		return hash[:]
	}
	hash := sha256.Sum256([]byte(c.JWTSecret + "-encryption"))
	return hash[:]
}

// SendDelay returns the pause between consecutive bulk dispatches.
func (c *Config) SendDelay() time.Duration {
	return time.Duration(c.SendDelayMs) * time.Millisecond
}

// Save saves the current configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
