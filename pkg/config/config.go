package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/smith3v/tg-lingo-courses/pkg/logger"
)

const EnvPrefix = "LINGO"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Database     DatabaseConfig     `json:"database"`
	Telegram     TelegramConfig     `json:"telegram"`
	Logging      LoggingConfig      `json:"logging"`
	Quiz         QuizConfig         `json:"quiz"`
	Verification VerificationConfig `json:"verification"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver" envconfig:"DB_DRIVER"`
	Path     string `json:"path" envconfig:"DB_PATH"`
	Host     string `json:"host" envconfig:"DB_HOST"`
	User     string `json:"user" envconfig:"DB_USER"`
	Password string `json:"password" envconfig:"DB_PASSWORD"`
	DBName   string `json:"dbname" envconfig:"DB_NAME"`
	Port     int    `json:"port" envconfig:"DB_PORT"`
	SSLMode  string `json:"sslmode" envconfig:"DB_SSLMODE"`
}

type TelegramConfig struct {
	Token string `json:"token" envconfig:"TELEGRAM_TOKEN"`
	// Updates per second allowed for a single chat; 0 disables the limit.
	RateLimit float64 `json:"rate_limit" envconfig:"TELEGRAM_RATE_LIMIT"`
	RateBurst int     `json:"rate_burst" envconfig:"TELEGRAM_RATE_BURST"`
}

type LoggingConfig struct {
	Level     string `json:"level" envconfig:"LOG_LEVEL"`
	File      string `json:"file" envconfig:"LOG_FILE"`
	GormLevel string `json:"gorm_level" envconfig:"LOG_GORM_LEVEL"`
	// Queries slower than this are logged at warn level.
	GormSlowThreshold Duration `json:"gorm_slow_threshold" envconfig:"LOG_GORM_SLOW_THRESHOLD"`
}

type QuizConfig struct {
	InactivityTimeout Duration `json:"inactivity_timeout" envconfig:"QUIZ_INACTIVITY_TIMEOUT"`
}

type VerificationConfig struct {
	CodeTTL Duration `json:"code_ttl" envconfig:"VERIFICATION_CODE_TTL"`
}

// Duration accepts "15m" style strings in JSON and environment values.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	return d.Decode(raw)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Decode implements envconfig.Decoder.
func (d *Duration) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

var AppConfig Config

func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "lingo.db",
		},
		Telegram: TelegramConfig{
			RateLimit: 2,
			RateBurst: 5,
		},
		Logging: LoggingConfig{
			Level:     "info",
			GormLevel: "warn",
		},
		Quiz: QuizConfig{
			InactivityTimeout: Duration{30 * time.Minute},
		},
		Verification: VerificationConfig{
			CodeTTL: Duration{10 * time.Minute},
		},
	}
}

// LoadConfig fills AppConfig from defaults, the JSON file, an optional .env
// file next to the working directory, and LINGO_* environment variables, in
// that order.
func LoadConfig(filename string) error {
	cfg := Defaults()

	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("failed to load .env file", "error", err)
		return err
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		logger.Error("failed to apply environment overrides", "error", err)
		return fmt.Errorf("parse environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

func Validate(cfg Config) error {
	errs := make([]string, 0, 4)
	switch cfg.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(cfg.Database.Path) == "" {
			errs = append(errs, "database path is required for sqlite")
		}
	case DriverPostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			errs = append(errs, "database host is required for postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported database driver %q", cfg.Database.Driver))
	}
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		errs = append(errs, "telegram token is required")
	}
	if cfg.Telegram.RateLimit < 0 {
		errs = append(errs, "telegram rate limit must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, ", "))
	}
	return nil
}
