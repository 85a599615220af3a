package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/brimon/internal/flagx"
	"github.com/dmitrijs2005/brimon/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" apart from "empty" so a partial file only overrides
// what it names.
type JsonConfig struct {
	DatabasePath    *string         `json:"database_path"`
	SessionSecret   *string         `json:"session_secret"`
	DefaultPassword *string         `json:"default_password"`
	LoginTimeout    *timex.Duration `json:"login_timeout"`
	OrderWorkflow   *string         `json:"order_workflow"`
	LogLevel        *string         `json:"log_level"`
	ExportDir       *string         `json:"export_dir"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// -c / -config (or BRIMON_CONFIG). Read and decode errors panic; the caller
// decides whether to recover.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.SessionSecret != nil {
		cfg.SessionSecret = *jc.SessionSecret
	}
	if jc.DefaultPassword != nil {
		cfg.DefaultPassword = *jc.DefaultPassword
	}
	if jc.LoginTimeout != nil {
		cfg.LoginTimeout = jc.LoginTimeout.Duration
	}
	if jc.OrderWorkflow != nil {
		cfg.OrderWorkflow = *jc.OrderWorkflow
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.ExportDir != nil {
		cfg.ExportDir = *jc.ExportDir
	}
}
