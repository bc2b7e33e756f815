package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	pkgLogger "github.com/proyecthub/proyecthub-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Direction selects which way Migrate moves the schema
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate applies the embedded migrations. It opens its own connection
// because closing the migrator closes the database handle it was given.
func Migrate(databaseURL string, direction Direction) error {
	if direction != Up && direction != Down {
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	dsn, err := migrateURL(databaseURL)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if direction == Up {
		err = migrator.Up()
	} else {
		err = migrator.Steps(-1)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		pkgLogger.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s failed: %w", direction, err)
	}

	version, dirty, _ := migrator.Version()
	pkgLogger.Info("Migrations applied", "direction", string(direction), "version", version, "dirty", dirty)
	return nil
}

// migrateURL rewrites a postgres URL for the pgx/v5 migrate driver.
// Keyword/value DSNs are not supported here.
func migrateURL(databaseURL string) (string, error) {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix), nil
		}
	}
	if strings.HasPrefix(databaseURL, "pgx5://") {
		return databaseURL, nil
	}
	return "", fmt.Errorf("DATABASE_URL must be a postgres:// URL to run migrations")
}
