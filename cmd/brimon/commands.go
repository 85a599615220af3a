package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/brimon/internal/buildinfo"
	"github.com/dmitrijs2005/brimon/internal/cli"
	"github.com/dmitrijs2005/brimon/internal/config"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/storage"
)

// boot loads config, opens the store, seeds it when empty and builds the
// shell. The returned func closes the store.
func boot(ctx context.Context) (*cli.App, func(), error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	store, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "failed to close database", "error", err)
		}
	}

	app, err := cli.NewApp(cfg, store, log)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	seeded, n, err := app.Seed(ctx)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	if seeded || n > 0 {
		log.Info(ctx, "store seeded", "demo_data", seeded, "credentials", n)
	}
	return app, closeStore, nil
}

// newRootCmd builds the command tree. Config flags (-c, -d, -s, -t, -w, -l)
// are read by the config package, so cobra lets unknown flags through.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brimon",
		Short: "brimon: tasks and material orders for a small team",
		Long: "brimon keeps users, projects, tasks and material orders in a local SQLite file.\n" +
			"Without a subcommand it starts the interactive shell.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
			app, done, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return app.Run(cmd.Context())
		},
	}

	root.AddCommand(
		seedCmd(),
		sessionCmd("export <tasks|orders> [mine|all] [csv|xlsx]", "Export tasks or orders visible to the logged in user", "export", cobra.RangeArgs(1, 3)),
		sessionCmd("dump <file>", "Write the whole store to a JSON file (admins)", "dump", cobra.ExactArgs(1)),
		sessionCmd("restore <file>", "Replace the store with a JSON dump (admins)", "restore", cobra.ExactArgs(1)),
		versionCmd(),
	)

	whitelistUnknownFlags(root)
	return root
}

func whitelistUnknownFlags(c *cobra.Command) {
	c.FParseErrWhitelist = cobra.FParseErrWhitelist{UnknownFlags: true}
	for _, sub := range c.Commands() {
		whitelistUnknownFlags(sub)
	}
}

// brimon seed
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the database, demo data and default passwords if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, done, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			done()
			fmt.Fprintln(cmd.OutOrStdout(), "Store is ready")
			return nil
		},
	}
}

// sessionCmd runs a shell command once, as the user of the stored session.
func sessionCmd(use, short, name string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, done, err := boot(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			return app.RunCommand(cmd.Context(), name, args)
		},
	}
}

// brimon version
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
