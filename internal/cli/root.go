package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/retcal/internal/backup"
	"github.com/julianstephens/retcal/internal/config"
	"github.com/julianstephens/retcal/internal/constants"
	"github.com/julianstephens/retcal/internal/goals"
	"github.com/julianstephens/retcal/internal/keyring"
	"github.com/julianstephens/retcal/internal/logger"
	"github.com/julianstephens/retcal/internal/storage"
	"github.com/julianstephens/retcal/internal/storage/postgres"
	"github.com/julianstephens/retcal/internal/storage/sqlite"
)

type Context struct {
	Store        storage.Provider
	Settings     *config.Config
	SettingsPath string

	goals *goals.Store
}

// Goals opens the goal collection on first use. The store must already be
// loaded or initialized.
func (c *Context) Goals() (*goals.Store, error) {
	if c.goals != nil {
		return c.goals, nil
	}
	g, err := goals.Open(c.Store)
	if err != nil {
		return nil, err
	}
	c.goals = g
	return g, nil
}

// Migrator is implemented by the database-backed providers.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
}

// PerformAutomaticBackup snapshots file-backed stores when enabled in
// settings. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if c.Settings != nil && !c.Settings.AutoBackup {
		return
	}
	if _, ok := c.Store.(*postgres.Store); ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// IsPostgres reports whether target is a PostgreSQL URI or DSN.
func IsPostgres(target string) bool {
	return postgres.IsConnString(target) || strings.Contains(target, "host=")
}

// ResolveTarget picks the storage location. An explicit --config wins; the
// default path gives way to RETCAL_DB_CONNECTION and then to a connection
// string saved in the OS keyring.
func ResolveTarget(flagValue string) string {
	if flagValue != "" && flagValue != constants.DefaultConfigPath {
		return flagValue
	}
	if env := strings.TrimSpace(os.Getenv(constants.ConnectionEnvVar)); env != "" {
		logger.Debug("Using connection string from environment", "var", constants.ConnectionEnvVar)
		return env
	}
	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		logger.Debug("Using connection string from OS keyring")
		return connStr
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Debug("OS keyring lookup failed", "error", err)
	}
	return constants.DefaultConfigPath
}

// NewProvider returns the slot store for target: PostgreSQL for connection
// strings, a JSON file for *.json paths, and SQLite otherwise.
func NewProvider(target string) (storage.Provider, error) {
	if IsPostgres(target) {
		if _, err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: use ~/.pgpass, PGPASSWORD or 'retcal keyring set' instead", err)
			}
			return nil, err
		}
		return postgres.New(target), nil
	}

	path := ExpandPath(target)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// LogDir returns the directory log files are written under for target.
func LogDir(target string) string {
	if IsPostgres(target) {
		return filepath.Dir(ExpandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(ExpandPath(target))
}
