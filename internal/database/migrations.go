package database

import (
	"embed"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"

	"golden-palette/internal/config"
	"golden-palette/internal/logger"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrationsFS embed.FS

// MigrationURL returns the golang-migrate database URL for the configured driver
func MigrationURL(cfg *config.Config) (string, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return "pgx5://" + strings.TrimPrefix(cfg.DatabaseURL(), "postgres://"), nil
	case config.DriverMySQL:
		return "mysql://" + cfg.MySQLDSN(), nil
	default:
		return "", errors.Errorf("storage driver %s has no migrations", cfg.Storage.Driver)
	}
}

// RunMigrations applies every pending embedded migration for the configured driver
func RunMigrations(cfg *config.Config, log *logger.Logger) error {
	url, err := MigrationURL(cfg)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations/"+cfg.Storage.Driver)
	if err != nil {
		return errors.Wrap(err, "failed to open embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return errors.Wrap(err, "failed to create migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("migrations_up_to_date", "No pending migrations", "startup", nil)
			return nil
		}
		return errors.Wrap(err, "failed to apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil {
		return errors.Wrap(err, "failed to read migration version")
	}

	log.Info("migration_applied", "Migrations applied", "startup", map[string]interface{}{
		"driver":  cfg.Storage.Driver,
		"version": version,
		"dirty":   dirty,
	})
	return nil
}
