// Package config loads runtime configuration for brimon.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c / -config, or BRIMON_CONFIG.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the SQLite database file
//	-s string   secret used to sign the session token
//	-t int      login timeout (seconds)
//	-w string   order workflow: "strict" or "free"
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
//	{
//	  "database_path": "brimon.db",
//	  "session_secret": "change-me",
//	  "default_password": "Password!2026",
//	  "login_timeout": "5s",
//	  "order_workflow": "strict",
//	  "log_level": "info",
//	  "export_dir": "exports"
//	}
//
// Fields missing from the JSON file keep their default.
package config
