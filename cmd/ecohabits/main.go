package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/ecohabits/internal/cli"
	"github.com/julianstephens/ecohabits/internal/cli/backups"
	"github.com/julianstephens/ecohabits/internal/cli/habits"
	"github.com/julianstephens/ecohabits/internal/cli/logs"
	"github.com/julianstephens/ecohabits/internal/cli/system"
	"github.com/julianstephens/ecohabits/internal/config"
	"github.com/julianstephens/ecohabits/internal/constants"
	"github.com/julianstephens/ecohabits/internal/errors"
	"github.com/julianstephens/ecohabits/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite path or PostgreSQL connection string. Overrides ECOHABITS_DB_CONNECTION and the keyring. PostgreSQL credentials must NOT be embedded; use .pgpass, PGPASSWORD or the keyring instead." type:"string"`
	Debug   bool   `help:"Log debug output to stderr."`
	Token   string `help:"Session token to act with. Overrides ECOHABITS_TOKEN and the saved login."`

	Init    system.InitCmd    `cmd:"" help:"Initialize ecohabits storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Login   system.LoginCmd   `cmd:"" help:"Start a local session as a user."`
	Logout  system.LogoutCmd  `cmd:"" help:"End the saved session."`
	Whoami  system.WhoamiCmd  `cmd:"" help:"Show the current user."`
	Tui     system.TuiCmd     `cmd:"" help:"Browse and log habits interactively."`
	Habit   habits.HabitCmd   `cmd:"" help:"Manage habits."`
	Log     logs.LogCmd       `cmd:"" help:"Record and list habit logs."`
	Backup  backups.BackupCmd `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the connection string stored in the OS keyring."`
}

// Commands that open the store themselves or never touch it.
var skipLoad = map[string]bool{
	"init":    true,
	"login":   true,
	"logout":  true,
	"keyring": true,
	"whoami":  true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track sustainable habits and the impact they add up to"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}
	cfg.Debug = cfg.Debug || CLI.Debug

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		errors.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	conn, err := cli.ResolveConnection(cfg, CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	store, err := cli.OpenStore(conn)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := cli.NewContext(store, cfg, cli.ResolveCaller(cfg, CLI.Token))

	command := strings.Fields(ctx.Command())[0]
	if !skipLoad[command] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	logger.Debug("Running command", "command", ctx.Command(), "storage", store.GetConfigPath(), "user", appCtx.Caller.UserID)

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}
