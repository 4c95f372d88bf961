package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"golden-palette/internal/config"
	"golden-palette/internal/database"
	"golden-palette/internal/logger"
	"golden-palette/internal/messaging"
	"golden-palette/internal/services/menu"
)

// env is what every command starts from
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func setup(c *cli.Context, service string) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	log := logger.New(service)
	log.SetLevel(cfg.LogLevel)
	if lvl := c.String("log-level"); lvl != "" {
		log.SetLevel(lvl)
	}
	return &env{cfg: cfg, log: log}, nil
}

// storeHandle is an opened menu store with its health check and cleanup
type storeHandle struct {
	store  menu.Store
	health func(ctx context.Context) error
	close  func()
}

// openStore connects the configured menu store, migrating and seeding it as needed
func openStore(ctx context.Context, e *env) (*storeHandle, error) {
	h := &storeHandle{close: func() {}}

	switch e.cfg.Storage.Driver {
	case config.DriverMemory:
		h.store = menu.NewMemoryStore()

	case config.DriverPostgres:
		db, err := database.New(e.cfg, e.log)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize database")
		}
		if err := database.RunMigrations(e.cfg, e.log); err != nil {
			db.Close()
			return nil, err
		}
		e.log.Info("db_connected", "Connected to PostgreSQL database", "startup", nil)
		h.store, h.health, h.close = menu.NewPostgresStore(db), db.Ping, db.Close

	case config.DriverMySQL:
		db, err := database.NewMySQL(e.cfg, e.log)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize database")
		}
		if err := database.RunMigrations(e.cfg, e.log); err != nil {
			db.Close()
			return nil, err
		}
		e.log.Info("db_connected", "Connected to MySQL database", "startup", nil)
		h.store, h.health = menu.NewMySQLStore(db), db.PingContext
		h.close = func() { db.Close() }
	}

	if e.cfg.Storage.SeedDefaultMenu {
		n, err := menu.SeedDefaultMenu(ctx, h.store)
		if err != nil {
			h.close()
			return nil, errors.Wrap(err, "seed default menu")
		}
		if n > 0 {
			e.log.Info("menu_seeded", "Default menu stored", "startup", map[string]interface{}{"items": n})
		}
	}
	return h, nil
}

// openPublisher connects to RabbitMQ when it is enabled. The returned
// dispatcher is nil otherwise.
func openPublisher(e *env) (menu.EventDispatcher, func(), error) {
	if !e.cfg.RabbitMQ.Enabled {
		return nil, func() {}, nil
	}
	conn, err := messaging.New(e.cfg, e.log)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize messaging")
	}
	e.log.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", nil)
	pub := messaging.NewPublisher(conn, e.log)
	return pub, func() { pub.Close() }, nil
}

func portOr(c *cli.Context, fallback int) int {
	if p := c.Int("port"); p > 0 {
		return p
	}
	return fallback
}
