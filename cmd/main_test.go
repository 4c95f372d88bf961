package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-palette/internal/config"
	"golden-palette/internal/models"
)

func TestCommands(t *testing.T) {
	var names []string
	for _, cmd := range newApp().Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{
		"ordering-service", "chef-service", "serve", "notification-subscriber", "migrate", "add-meal",
	}, names)
}

func runAddMealCLI(t *testing.T, args ...string) (*models.MenuItem, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	base := []string{"golden-palette", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "panic", "add-meal"}
	if err := app.RunContext(context.Background(), append(base, args...)); err != nil {
		return nil, err
	}

	var item models.MenuItem
	require.NoError(t, json.Unmarshal(out.Bytes(), &item))
	return &item, nil
}

func TestAddMealWithImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tart.png"), []byte("png"), 0o644))

	item, err := runAddMealCLI(t,
		"--category", "Desserts", "--name", "Milk Tart", "--price", "40",
		"--image", "tart.png", "--media-dir", dir)
	require.NoError(t, err)

	assert.Equal(t, "Milk Tart", item.Name)
	assert.Equal(t, models.Desserts, item.Category)
	assert.Equal(t, filepath.Join(dir, "tart.png"), item.Image)
}

func TestAddMealSkipsImageWhenLibraryUnavailable(t *testing.T) {
	item, err := runAddMealCLI(t,
		"--category", "Starters", "--name", "Samoosas",
		"--image", "x.png", "--media-dir", filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, item.Image)
}

func TestAddMealRejectsUnknownCategory(t *testing.T) {
	_, err := runAddMealCLI(t, "--category", "Drinks", "--name", "Rooibos")
	assert.Error(t, err)
}

func TestCatalogRefreshMode(t *testing.T) {
	tests := []struct {
		name     string
		driver   string
		rabbit   bool
		interval time.Duration
		want     refreshMode
	}{
		{"events when rabbitmq is enabled", config.DriverPostgres, true, time.Minute, refreshByEvents},
		{"poll shared postgres store", config.DriverPostgres, false, time.Minute, refreshByPolling},
		{"poll shared mysql store", config.DriverMySQL, false, time.Second, refreshByPolling},
		{"memory store is private", config.DriverMemory, false, time.Minute, refreshNever},
		{"polling disabled", config.DriverMySQL, false, 0, refreshNever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Storage.Driver = tt.driver
			cfg.RabbitMQ.Enabled = tt.rabbit
			cfg.Storage.CatalogReloadInterval = tt.interval
			assert.Equal(t, tt.want, catalogRefreshMode(cfg))
		})
	}
}
