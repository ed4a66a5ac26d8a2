package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel       string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort       string        `yaml:"http-port" env:"PORT" env-default:"5000"`
	DatabaseURL    string        `yaml:"database-url" env:"DATABASE_URL"`
	AllowedOrigins []string      `yaml:"cors-allowed-origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	StoreTimeout   time.Duration `yaml:"store-timeout" env:"STORE_TIMEOUT" env-default:"5s"`
}

// Client is the configuration of the terminal game.
type Client struct {
	LogLevel      string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"warn"`
	ResultsAPIURL string        `yaml:"results-api-url" env:"RESULTS_API_URL" env-default:"http://localhost:5000"`
	SubmitTimeout time.Duration `yaml:"submit-timeout" env:"SUBMIT_TIMEOUT" env-default:"5s"`
}

// MustLoad - loads .env, then config.yml when it exists, then the process environment.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := load(path, config); err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

// MustLoadClient - same as MustLoad for the terminal game.
func MustLoadClient(path string) *Client {
	config := &Client{}

	if err := load(path, config); err != nil {
		panic(fmt.Errorf("unable to load client config: %w", err))
	}

	return config
}

func load(path string, config any) error {
	// a missing .env is fine, the environment may be set already
	_ = godotenv.Load()

	if _, err := os.Stat(path); err == nil {
		return cleanenv.ReadConfig(path, config)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not stat %s: %w", path, err)
	}

	return cleanenv.ReadEnv(config)
}

// IsPlaceholder reports connection strings copied from a template and never filled in.
func IsPlaceholder(dsn string) bool {
	open := strings.Index(dsn, "<")
	return open >= 0 && strings.Contains(dsn[open:], ">")
}
