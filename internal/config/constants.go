package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path of the SQLite catalog database
	DefaultDatabasePath = "./bookcatalog.db"

	// DefaultTasksDatabasePath is the default path of the SQLite task queue database
	DefaultTasksDatabasePath = "./bookcatalog-tasks.db"
)
