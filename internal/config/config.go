package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendS3     = "s3"
	BackendMemory = "memory"

	SignerDirect    = "direct"
	SignerDelegated = "delegated"
)

type Config struct {
	HTTPHost         string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort         string        `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"5m"`

	CabinetBaseURL string `envconfig:"CABINET_BASE_URL" default:"https://api.rms.rakuten.co.jp/es/1.0"`
	FetchWorkers   int    `envconfig:"FETCH_WORKERS" default:"1"`

	StorageBackend string        `envconfig:"STORAGE_BACKEND" default:"s3"`
	StorageBucket  string        `envconfig:"STORAGE_BUCKET"`
	StoragePrefix  string        `envconfig:"STORAGE_PREFIX" default:"downloads"`
	SignedURLTTL   time.Duration `envconfig:"SIGNED_URL_TTL" default:"15m"`
	SignerMode     string        `envconfig:"SIGNER_MODE" default:"direct"`

	S3Region        string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint      string `envconfig:"S3_ENDPOINT"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string `envconfig:"S3_SECRET_KEY"`
	S3SignerRoleARN string `envconfig:"S3_SIGNER_ROLE_ARN"`
	S3UsePathStyle  bool   `envconfig:"S3_USE_PATH_STYLE" default:"false"`

	MemorySigningKey string `envconfig:"MEMORY_SIGNING_KEY"`
	PublicBaseURL    string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
}

// Load читает .env (если он есть) и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("не удалось прочитать .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать конфигурацию: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.StorageBucket == "" {
		return errors.New("STORAGE_BUCKET не задан")
	}
	if c.FetchWorkers < 1 {
		return fmt.Errorf("FETCH_WORKERS должен быть >= 1, получено %d", c.FetchWorkers)
	}
	if c.SignedURLTTL <= 0 {
		return fmt.Errorf("SIGNED_URL_TTL должен быть положительным, получено %s", c.SignedURLTTL)
	}

	switch c.StorageBackend {
	case BackendMemory:
		return nil
	case BackendS3:
	default:
		return fmt.Errorf("неизвестный STORAGE_BACKEND: %q", c.StorageBackend)
	}

	switch c.SignerMode {
	case SignerDirect:
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return errors.New("для SIGNER_MODE=direct нужны S3_ACCESS_KEY и S3_SECRET_KEY")
		}
	case SignerDelegated:
		if c.S3SignerRoleARN == "" {
			return errors.New("для SIGNER_MODE=delegated нужен S3_SIGNER_ROLE_ARN")
		}
	default:
		return fmt.Errorf("неизвестный SIGNER_MODE: %q", c.SignerMode)
	}

	return nil
}
