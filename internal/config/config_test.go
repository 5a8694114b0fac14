package config_test

import (
	"testing"

	"liberty/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 2, cfg.Images.MaxSizeMB)
	assert.Equal(t, "/assets/images", cfg.Images.URLPrefix)
	assert.Equal(t, "product", cfg.RabbitMQ.Exchange)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.Equal(t, config.LogFormatText, cfg.Log.Format)
	assert.True(t, cfg.SeedCategories)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_DSN", "host=db user=liberty")
	t.Setenv("IMAGE_MAX_SIZE_MB", "4")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "host=db user=liberty", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Images.MaxSizeMB)
	assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		msg  string
	}{
		{"unknown driver", "DATABASE_DRIVER", "mongo", "DATABASE_DRIVER"},
		{"unknown log format", "LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"zero image size", "IMAGE_MAX_SIZE_MB", 0, "IMAGE_MAX_SIZE_MB"},
		{"body limit too small", "BODY_LIMIT_MB", 2, "BODY_LIMIT_MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := config.Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
