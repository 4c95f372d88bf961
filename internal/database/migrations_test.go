package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-palette/internal/config"
)

func TestMigrationURL(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Password = "pw"

	cfg.Storage.Driver = config.DriverPostgres
	url, err := MigrationURL(cfg)
	require.NoError(t, err)
	assert.Equal(t, "pgx5://restaurant_user:pw@localhost:5432/golden_palette?sslmode=disable", url)

	cfg.Storage.Driver = config.DriverMySQL
	url, err = MigrationURL(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mysql://restaurant_user:pw@tcp(localhost:3306)/golden_palette?parseTime=true&multiStatements=true", url)

	cfg.Storage.Driver = config.DriverMemory
	_, err = MigrationURL(cfg)
	assert.Error(t, err)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	for _, driver := range []string{config.DriverPostgres, config.DriverMySQL} {
		ups, err := fs.Glob(migrationsFS, "migrations/"+driver+"/*.up.sql")
		require.NoError(t, err)
		downs, err := fs.Glob(migrationsFS, "migrations/"+driver+"/*.down.sql")
		require.NoError(t, err)

		assert.NotEmpty(t, ups, driver)
		assert.Len(t, downs, len(ups), driver)
	}
}
