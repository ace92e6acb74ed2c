package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BUCKET", "bucket")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "https://api.rms.rakuten.co.jp/es/1.0", cfg.CabinetBaseURL)
	assert.Equal(t, 1, cfg.FetchWorkers)
	assert.Equal(t, BackendS3, cfg.StorageBackend)
	assert.Equal(t, "downloads", cfg.StoragePrefix)
	assert.Equal(t, 15*time.Minute, cfg.SignedURLTTL)
	assert.Equal(t, SignerDirect, cfg.SignerMode)
}

func TestLoad_MissingBucket(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BUCKET")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			StorageBackend: BackendS3,
			StorageBucket:  "bucket",
			SignedURLTTL:   15 * time.Minute,
			SignerMode:     SignerDirect,
			FetchWorkers:   1,
			S3AccessKey:    "key",
			S3SecretKey:    "secret",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"memory backend without keys", func(c *Config) {
			c.StorageBackend = BackendMemory
			c.S3AccessKey = ""
		}, ""},
		{"unknown backend", func(c *Config) { c.StorageBackend = "gcs" }, "STORAGE_BACKEND"},
		{"unknown signer", func(c *Config) { c.SignerMode = "auto" }, "SIGNER_MODE"},
		{"direct without keys", func(c *Config) { c.S3SecretKey = "" }, "S3_SECRET_KEY"},
		{"delegated without role", func(c *Config) { c.SignerMode = SignerDelegated }, "S3_SIGNER_ROLE_ARN"},
		{"delegated with role", func(c *Config) {
			c.SignerMode = SignerDelegated
			c.S3SignerRoleARN = "arn:aws:iam::123456789012:role/signer"
		}, ""},
		{"zero workers", func(c *Config) { c.FetchWorkers = 0 }, "FETCH_WORKERS"},
		{"zero ttl", func(c *Config) { c.SignedURLTTL = 0 }, "SIGNED_URL_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
