package constants

const (
	AppName            = "ecohabits"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session-token"
	SecretKeyringUser  = "signing-secret"
	DefaultConfigDir   = "~/.config/ecohabits"
	DefaultDBFile      = "ecohabits.db"
	Version            = "v0.1.0"

	// DateFormat is the date format accepted for log dates on the command line (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "ecohabits-"
	BackupFileSuffix = ".db"

	// Conventional habit frequencies. Not enforced.
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"

	// Log upsert modes
	ModeCreated = "created"
	ModeUpdated = "updated"
)
