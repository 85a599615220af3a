package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "brimon.db", c.DatabasePath)
	assert.Equal(t, common.DefaultSeedPassword, c.DefaultPassword)
	assert.Equal(t, 5*time.Second, c.LoginTimeout)
	assert.Equal(t, WorkflowStrict, c.OrderWorkflow)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "exports", c.ExportDir)
	assert.NotEmpty(t, c.SessionSecret)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv("BRIMON_CONFIG", "")

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "brimon.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Second, cfg.LoginTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty db path", func(c *Config) { c.DatabasePath = "" }},
		{"empty secret", func(c *Config) { c.SessionSecret = "" }},
		{"zero timeout", func(c *Config) { c.LoginTimeout = 0 }},
		{"unknown workflow", func(c *Config) { c.OrderWorkflow = "chaotic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.ErrorIs(t, c.Validate(), common.ErrValidation)
		})
	}
}
