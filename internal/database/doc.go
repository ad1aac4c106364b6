// Package database provides the gorm-backed persistence of the catalog.
//
// # Layout
//
//	database/
//	├── database.go       # Connection setup for SQLite and PostgreSQL, migrations
//	├── unit_of_work.go   # Transactional sessions and their factory
//	├── schema/           # Table records, entity mapping, error translation
//	├── authors/          # Author rows
//	├── books/            # Book rows
//	└── tags/             # Book tag rows
//
// # Sessions
//
// Every repository is bound to the transaction of one UnitOfWork. Callers open sessions
// through the factory and finish each with Commit or Rollback:
//
//	db, err := database.NewDatabase(database.Config{Path: "./bookcatalog.db"})
//	factory := database.NewUnitOfWorkFactory(db)
//
//	uow, err := factory.New()
//	defer uow.Close()
//	err = uow.Authors().Save(ctx, author)
//	err = uow.Commit(ctx)
//
// Storage failures caused by unique or foreign key constraints surface as
// entities.ErrConstraintViolation, missing rows as entities.ErrNotFound.
package database
