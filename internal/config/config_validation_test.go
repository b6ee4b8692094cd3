package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) StructuredConfig {
	t.Helper()
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{"defaults are valid", func(*StructuredConfig) {}, nil},
		{"empty secret", func(c *StructuredConfig) { c.Auth.TokenSignKey = "" }, ErrInvalidAuthConfigs},
		{"other algorithm", func(c *StructuredConfig) { c.Auth.Algorithm = "RS256" }, ErrInvalidAuthConfigs},
		{"zero ttl", func(c *StructuredConfig) { c.Auth.AccessTokenExpireMinutes = 0 }, ErrInvalidAuthConfigs},
		{"bcrypt cost", func(c *StructuredConfig) { c.Auth.BcryptCost = 40 }, ErrInvalidAuthConfigs},
		{"no dsn", func(c *StructuredConfig) { c.Storage.DB.DSN = "" }, ErrInvalidStorageConfigs},
		{"bad driver", func(c *StructuredConfig) { c.Storage.DB.Driver = "mysql" }, ErrInvalidStorageConfigs},
		{"unknown backend", func(c *StructuredConfig) { c.Storage.Files.Backend = "azure" }, ErrInvalidStorageConfigs},
		{"s3 without bucket", func(c *StructuredConfig) {
			c.Storage.Files.Backend = BackendS3
			c.Storage.Files.S3.Bucket = ""
		}, ErrInvalidStorageConfigs},
		{"gridfs accepted", func(c *StructuredConfig) { c.Storage.Files.Backend = BackendGridFS }, nil},
		{"extension without dot", func(c *StructuredConfig) {
			c.Storage.Files.AllowedArchiveExtensions = []string{"zip"}
		}, ErrInvalidStorageConfigs},
		{"zero max size", func(c *StructuredConfig) { c.Storage.Files.MaxFileSize = 0 }, ErrInvalidStorageConfigs},
		{"no http address", func(c *StructuredConfig) { c.Server.HTTPAddress = "" }, ErrInvalidServerConfigs},
		{"prefix without slash", func(c *StructuredConfig) { c.Server.APIPrefix = "api" }, ErrInvalidServerConfigs},
		{"zero agent limit", func(c *StructuredConfig) { c.Agents.MaxTags = 0 }, ErrInvalidAgentConfigs},
		{"reconcile batch", func(c *StructuredConfig) { c.Workers.ReconcileBatchSize = 0 }, ErrInvalidWorkerConfigs},
		{"disabled reconcile ignores batch", func(c *StructuredConfig) {
			c.Workers.ReconcileInterval = -1
			c.Workers.ReconcileBatchSize = 0
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryGroup(t *testing.T) {
	cfg := validConfig(t)
	cfg.Auth.TokenSignKey = ""
	cfg.Server.HTTPAddress = ""

	err := cfg.validate()
	assert.ErrorIs(t, err, ErrInvalidAuthConfigs)
	assert.ErrorIs(t, err, ErrInvalidServerConfigs)
}
