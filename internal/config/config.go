package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// InsecureJWTSecret is the built-in development secret. Validate refuses it
// outside development.
const InsecureJWTSecret = "aynaform-dev-secret"

type Config struct {
	Addr           string          `yaml:"addr"`
	JWTSecret      string          `yaml:"jwt_secret"`
	APITimeout     time.Duration   `yaml:"timeout"`
	DatabasePath   string          `yaml:"database_path"`
	MigrateOnStart bool            `yaml:"migrate_on_start"`
	TokenDuration  time.Duration   `yaml:"token_duration"`
	BcryptCost     int             `yaml:"bcrypt_cost"`
	LogLevel       string          `yaml:"log_level"`
	Responses      ResponsesConfig `yaml:"responses"`
	Sweeper        SweeperConfig   `yaml:"sweeper"`
}

type ResponsesConfig struct {
	// AnswerMatching is "id" (default) or "position".
	AnswerMatching string `yaml:"answer_matching"`
	StrictAnswers  bool   `yaml:"strict_answers"`
}

type SweeperConfig struct {
	// Interval between orphaned-answer sweeps; zero disables the sweeper.
	Interval time.Duration `yaml:"interval"`
}

// LoadConfig builds the configuration from defaults, a .env file in the
// working directory, AYNAFORM_* environment variables and, when path is set,
// a YAML file whose values win over everything else.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Addr:         getEnv("AYNAFORM_ADDR", ":8080"),
		JWTSecret:    getEnv("AYNAFORM_JWT_SECRET", InsecureJWTSecret),
		DatabasePath: getEnv("AYNAFORM_DATABASE_PATH", "aynaform.db"),
		LogLevel:     getEnv("AYNAFORM_LOG_LEVEL", "info"),
		Responses: ResponsesConfig{
			AnswerMatching: getEnv("AYNAFORM_ANSWER_MATCHING", "id"),
		},
	}

	var err error
	if cfg.APITimeout, err = getEnvDuration("AYNAFORM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.TokenDuration, err = getEnvDuration("AYNAFORM_TOKEN_DURATION", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Sweeper.Interval, err = getEnvDuration("AYNAFORM_SWEEP_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getEnvInt("AYNAFORM_BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart, err = getEnvBool("AYNAFORM_MIGRATE_ON_START", true); err != nil {
		return nil, err
	}
	if cfg.Responses.StrictAnswers, err = getEnvBool("AYNAFORM_STRICT_ANSWERS", false); err != nil {
		return nil, err
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the configuration. The development secret is only accepted
// when AYNAFORM_ENV is "development".
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.JWTSecret == InsecureJWTSecret && os.Getenv("AYNAFORM_ENV") != "development" {
		return errors.New("jwt_secret uses the insecure default; set AYNAFORM_JWT_SECRET or AYNAFORM_ENV=development")
	}
	if c.DatabasePath == "" {
		return errors.New("database_path is required")
	}
	if c.APITimeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.TokenDuration <= 0 {
		return errors.New("token_duration must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost %d out of range [4,31]", c.BcryptCost)
	}
	switch c.Responses.AnswerMatching {
	case "", "id", "position":
	default:
		return fmt.Errorf("responses.answer_matching must be \"id\" or \"position\", got %q", c.Responses.AnswerMatching)
	}
	if c.Sweeper.Interval < 0 {
		return errors.New("sweeper.interval must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
