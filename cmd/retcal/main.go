package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/retcal/internal/cli"
	"github.com/julianstephens/retcal/internal/cli/backups"
	"github.com/julianstephens/retcal/internal/cli/goals"
	"github.com/julianstephens/retcal/internal/cli/system"
	"github.com/julianstephens/retcal/internal/config"
	"github.com/julianstephens/retcal/internal/constants"
	apperrors "github.com/julianstephens/retcal/internal/errors"
	"github.com/julianstephens/retcal/internal/logger"
)

type CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Storage path (.db for SQLite, .json for a plain file) or PostgreSQL connection string. Credentials must NOT be embedded; use .pgpass, PGPASSWORD, RETCAL_DB_CONNECTION or the OS keyring." type:"string" default:"${default_config}"`
	Settings string `help:"Path to the YAML settings file." type:"path" default:"${default_settings}"`
	Debug    bool   `help:"Log at debug level and mirror logs to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize retcal storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored goals for integrity problems."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive calendar." default:"1"`
	Goal     struct {
		Add            goals.GoalAddCmd            `cmd:"" help:"Add a goal with its repeats."`
		List           goals.GoalListCmd           `cmd:"" help:"List goals."`
		Group          goals.GoalGroupCmd          `cmd:"" help:"Show every repeat of a goal."`
		Complete       goals.GoalCompleteCmd       `cmd:"" help:"Mark a goal instance complete."`
		Incomplete     goals.GoalIncompleteCmd     `cmd:"" help:"Mark a goal instance incomplete."`
		Delete         goals.GoalDeleteCmd         `cmd:"" help:"Delete a goal and all of its repeats."`
		DeleteInstance goals.GoalDeleteInstanceCmd `cmd:"" name:"delete-instance" help:"Delete a single goal instance."`
		Clear          goals.GoalClearCmd          `cmd:"" help:"Delete every goal."`
	} `cmd:"" help:"Manage goals."`
	Day    goals.DayCmd    `cmd:"" help:"Show the goals scheduled on a day."`
	Export goals.ExportCmd `cmd:"" help:"Export goals as iCalendar, JSON or CSV."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage storage backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
	} `cmd:"" help:"Manage the connection string kept in the OS keyring."`
	ConfigCmd struct {
		Show system.ConfigShowCmd `cmd:"" help:"Print the settings file." default:"1"`
		Path system.ConfigPathCmd `cmd:"" help:"Print the settings and storage locations."`
	} `cmd:"" name:"config" help:"Inspect application settings."`
}

// skipsLoad reports whether a command manages storage itself or never
// touches it.
func skipsLoad(command string) bool {
	for _, prefix := range []string{"init", "keyring", "config"} {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return true
		}
	}
	return false
}

func run(args []string) error {
	var app CLI
	parser, err := kong.New(&app,
		kong.Name(constants.AppName),
		kong.Description("Spaced-repetition goal calendar"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":          constants.Version,
			"default_config":   constants.DefaultConfigPath,
			"default_settings": constants.DefaultSettingsPath,
		},
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	target := cli.ResolveTarget(app.Config)

	logCfg := logger.Config{
		Debug:     app.Debug,
		ConfigDir: cli.LogDir(target),
		Level:     os.Getenv(constants.LogLevelEnvVar),
	}
	if err := logger.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	settingsPath := cli.ExpandPath(app.Settings)
	settings, err := config.Load(settingsPath)
	if err != nil {
		logger.Warn("Falling back to default settings", "path", settingsPath, "error", err)
		settings = config.DefaultConfig()
	}

	store, err := cli.NewProvider(target)
	if err != nil {
		return err
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:        store,
		Settings:     settings,
		SettingsPath: settingsPath,
	}

	command := ctx.Command()
	logger.Debug("Running command", "command", command, "storage", store.GetConfigPath())

	if !skipsLoad(command) {
		if err := store.Load(); err != nil {
			return err
		}
	}

	return ctx.Run(appCtx)
}

func main() {
	// a .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		apperrors.Fatalf("failed to load .env: %v", err)
	}

	if err := run(os.Args[1:]); err != nil {
		apperrors.Fatal(err)
	}
}
