package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PaulDelamare/FoudViseur/internal/logger"
)

type Config struct {
	TelegramToken   string
	TelegramOwnerID int64
	Gemini          GeminiConfig
	DB              DBConfig
	Edamam          EdamamConfig
	Redis           RedisConfig
	Logger          LoggerConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type DBConfig struct {
	Path string
}

type EdamamConfig struct {
	AppID           string
	AppKey          string
	BaseURL         string
	AutocompleteURL string
	Timeout         time.Duration
}

// RedisConfig configures the scanned product staging list. An empty Host
// selects the in-memory list.
type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	StagingKey string
	StagingTTL time.Duration
}

// Enabled reports whether a Redis server is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads the configuration from the environment. Malformed numeric or
// duration values are reported; missing required values are left to
// Validate.
func Load() (*Config, error) {
	var errs []error

	ownerID, err := strconv.ParseInt(getEnvOrDefault("TELEGRAM_OWNER_ID", "0"), 10, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("TELEGRAM_OWNER_ID: %w", err))
	}
	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		errs = append(errs, fmt.Errorf("REDIS_DB: %w", err))
	}
	edamamTimeout, err := time.ParseDuration(getEnvOrDefault("EDAMAM_TIMEOUT", "10s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("EDAMAM_TIMEOUT: %w", err))
	}
	stagingTTL, err := time.ParseDuration(getEnvOrDefault("STAGING_TTL", "24h"))
	if err != nil {
		errs = append(errs, fmt.Errorf("STAGING_TTL: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramOwnerID: ownerID,
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		DB: DBConfig{
			Path: getEnvOrDefault("DB_PATH", "data/meals.db"),
		},
		Edamam: EdamamConfig{
			AppID:           os.Getenv("EDAMAM_APP_ID"),
			AppKey:          os.Getenv("EDAMAM_APP_KEY"),
			BaseURL:         getEnvOrDefault("EDAMAM_BASE_URL", "https://api.edamam.com/api/food-database/v2"),
			AutocompleteURL: getEnvOrDefault("EDAMAM_AUTOCOMPLETE_URL", "https://api.edamam.com/auto-complete"),
			Timeout:         edamamTimeout,
		},
		Redis: RedisConfig{
			Host:       os.Getenv("REDIS_HOST"),
			Port:       getEnvOrDefault("REDIS_PORT", "6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			StagingKey: getEnvOrDefault("STAGING_KEY", "scanned_products"),
			StagingTTL: stagingTTL,
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}

// Validate reports every missing required setting.
func (c *Config) Validate() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.Edamam.AppID == "" || c.Edamam.AppKey == "" {
		errs = append(errs, errors.New("EDAMAM_APP_ID and EDAMAM_APP_KEY are required"))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("DB_PATH must not be empty"))
	}
	return errors.Join(errs...)
}

// LoggerSettings converts the logger section to logger.Config.
func (c *Config) LoggerSettings() logger.Config {
	return logger.Config{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
	}
}
