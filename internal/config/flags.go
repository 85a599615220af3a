package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/brimon/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database file
//	-s string   session secret
//	-t int      login timeout in seconds
//	-w string   order workflow (strict|free)
//	-l string   log level
//
// Only these flags are read from os.Args (see flagx.FilterArgs), so cobra
// subcommands and their own flags pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-t", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the SQLite database file")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session token signing secret")
	loginTimeout := fs.Int("t", int(cfg.LoginTimeout.Seconds()), "login timeout (in seconds)")
	fs.StringVar(&cfg.OrderWorkflow, "w", cfg.OrderWorkflow, "order workflow: strict or free")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.LoginTimeout = time.Duration(*loginTimeout) * time.Second
		}
	})
}
