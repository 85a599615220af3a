package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/brimon/internal/common"
)

// Order workflow names accepted in OrderWorkflow.
const (
	WorkflowStrict = "strict"
	WorkflowFree   = "free"
)

// Config holds runtime settings for brimon.
//
// Fields:
//   - DatabasePath: SQLite file holding users, tasks, orders and the session.
//   - SessionSecret: HMAC key for the session token. Changing it logs everyone out.
//   - DefaultPassword: password assigned to seeded users without a credential.
//   - LoginTimeout: upper bound for a single login (key derivation included).
//   - OrderWorkflow: "strict" forces orders through every status in turn,
//     "free" allows any move out of a non-terminal status.
//   - LogLevel: slog level name.
//   - ExportDir: directory (relative to the working dir) for CSV/XLSX exports.
type Config struct {
	DatabasePath    string
	SessionSecret   string
	DefaultPassword string
	LoginTimeout    time.Duration
	OrderWorkflow   string
	LogLevel        string
	ExportDir       string
}

// LoadDefaults populates c with sensible defaults.
// NOTE: SessionSecret must be overridden outside a demo setup.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "brimon.db"
	c.SessionSecret = "brimon-local-secret"
	c.DefaultPassword = common.DefaultSeedPassword
	c.LoginTimeout = 5 * time.Second
	c.OrderWorkflow = WorkflowStrict
	c.LogLevel = "info"
	c.ExportDir = "exports"
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: empty database path", common.ErrValidation)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("%w: empty session secret", common.ErrValidation)
	}
	if c.LoginTimeout <= 0 {
		return fmt.Errorf("%w: login timeout must be positive", common.ErrValidation)
	}
	if c.OrderWorkflow != WorkflowStrict && c.OrderWorkflow != WorkflowFree {
		return fmt.Errorf("%w: unknown order workflow %q", common.ErrValidation, c.OrderWorkflow)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
