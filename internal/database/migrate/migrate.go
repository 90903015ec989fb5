// Package migrate applies the SQL schema in migrations/ with golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// source driver
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNilDB is returned when a nil connection is passed in.
var ErrNilDB = errors.New("database connection is nil")

// Up applies every pending migration found in dir.
func Up(db *gorm.DB, dir string, logger *zap.SugaredLogger) error {
	if db == nil {
		return ErrNilDB
	}

	path, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve migrations path: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("migrations directory does not exist: %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Infow("schema up to date", "path", path)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Infow("migrations applied", "path", path, "version", version)
	return nil
}
