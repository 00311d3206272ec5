package database

import (
	"database/sql"
	"log/slog"

	"github.com/samber/oops"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/authcore/internal/entities"
)

// InMemoryPath opens a private in-memory database, used by tests and
// throwaway CLI runs.
const InMemoryPath = ":memory:"

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         newLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, oops.Code("DATABASE_OPEN_FAILED").With("path", dbPath).Wrap(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, oops.Code("DATABASE_OPEN_FAILED").With("path", dbPath).Wrap(err)
	}
	// Every connection to ":memory:" is a separate database, and SQLite
	// serializes writers anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&entities.User{}, &entities.AuthEvent{}); err != nil {
		return nil, oops.Code("DATABASE_MIGRATE_FAILED").With("path", dbPath).Wrap(err)
	}

	slog.Info("database initialized", "path", dbPath)

	return &Database{DB: db}, nil
}

// SQL returns the underlying connection pool, shared with the session store.
func (d *Database) SQL() (*sql.DB, error) {
	return d.DB.DB()
}

// Ping checks connectivity.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
