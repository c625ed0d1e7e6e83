package constants

const (
	AppName            = "theseus"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/theseus"
	DefaultDBPath      = "~/.config/theseus/theseus.db"
	DefaultConfigFile  = "~/.config/theseus/config.yaml"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MonthFormat identifies a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// Server
	DefaultAddr         = "127.0.0.1:4810"
	ServerLockfileName  = "theseus-server.lock"
	EnvDBConnection     = "THESEUS_DB_CONNECTION"
	EnvAddr             = "THESEUS_ADDR"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "theseus-"
	BackupFileSuffix = ".db"

	// Windows used by derived views
	HeatmapDays          = 365
	SleepScoreWindowDays = 7
	RenewalWindowDays    = 30
	DefaultSleepTarget   = 8.0
	DefaultWaterTarget   = 8
	DefaultCurrency      = "DKK"
)

// DefaultCORSOrigins are the local origins allowed to call the API.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4810",
}
