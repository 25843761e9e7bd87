package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName             = "retcal"
	DefaultKeyringUser  = "database-connection"
	DefaultConfigPath   = "~/.config/retcal/retcal.db"
	DefaultSettingsPath = "~/.config/retcal/settings.yaml"
	Version             = "v0.1.0"

	// ConnectionEnvVar holds a PostgreSQL connection string when set
	ConnectionEnvVar = "RETCAL_DB_CONNECTION"

	// LogLevelEnvVar overrides the log level when --debug is not given
	LogLevelEnvVar = "RETCAL_LOG_LEVEL"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// StorageKey names the slot holding the goal collection
	StorageKey = "retention-calender"

	// SchemaVersion is the version written into the persisted goal document
	SchemaVersion = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "retcal-"
)

// Session States
const (
	StateCalendar SessionState = iota
	StateAddGoal
	StateInstanceMenu
	StateConfirmDelete
)
