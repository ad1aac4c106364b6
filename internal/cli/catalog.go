package cli

import (
	"flag"
	"fmt"

	"github.com/mrlokans/bookcatalog/internal/app"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
)

// DatabaseFlags selects the catalog database for a command.
type DatabaseFlags struct {
	Driver   string
	Path     string
	DSN      string
	LogLevel string // gorm logger: silent, error, warn, info
}

func (f *DatabaseFlags) register(fs *flag.FlagSet, defaults config.Database) {
	fs.StringVar(&f.Driver, "driver", defaults.Driver, "Database driver: sqlite or postgres")
	fs.StringVar(&f.Path, "db", defaults.Path, "Path to the SQLite catalog database")
	fs.StringVar(&f.DSN, "dsn", defaults.DSN, "PostgreSQL connection string")
	fs.StringVar(&f.LogLevel, "db-log-level", defaults.LogLevel, "Database query log level: silent, error, warn or info")
}

// catalog is an opened database with the use cases running on top of it.
type catalog struct {
	db      *database.Database
	factory *database.UnitOfWorkFactory
	uc      *app.UseCases
}

func openCatalog(flags DatabaseFlags) (*catalog, error) {
	db, err := database.NewDatabase(database.Config{
		Driver:   flags.Driver,
		Path:     flags.Path,
		DSN:      flags.DSN,
		LogLevel: flags.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	factory := database.NewUnitOfWorkFactory(db)
	uc, err := app.NewUseCases(factory)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &catalog{db: db, factory: factory, uc: uc}, nil
}

// Close discards the open session and closes the database.
func (c *catalog) Close() error {
	ucErr := c.uc.Close()
	if err := c.db.Close(); err != nil {
		return err
	}
	return ucErr
}
