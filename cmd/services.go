package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"golden-palette/internal/config"
	"golden-palette/internal/database"
	"golden-palette/internal/logger"
	"golden-palette/internal/messaging"
	"golden-palette/internal/models"
	"golden-palette/internal/server"
	"golden-palette/internal/services/checkout"
	"golden-palette/internal/services/chef"
	"golden-palette/internal/services/menu"
	"golden-palette/internal/services/notification"
	"golden-palette/internal/services/ordering"
)

const sweepInterval = time.Minute

func newHTTPServer(port int, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// orderingStack builds the customer surface around catalog and adds its
// background jobs to g.
func orderingStack(ctx context.Context, g *errgroup.Group, e *env, catalog *menu.Catalog, health func(context.Context) error) http.Handler {
	sessions := ordering.NewSessionRegistry(e.cfg.HTTP.SessionTTL)
	g.Go(func() error {
		sessions.RunSweeper(ctx, sweepInterval, func(removed int) {
			e.log.Debug("sessions_expired", "Idle ordering sessions removed", "", map[string]interface{}{
				"removed": removed,
			})
		})
		return nil
	})

	handler := ordering.NewHandler(catalog, sessions, checkout.NewService(nil, e.log), health, e.log)
	return handler.SetupRoutes()
}

func runOrderingService(c *cli.Context) error {
	e, err := setup(c, "ordering-service")
	if err != nil {
		return err
	}
	ctx := c.Context

	sh, err := openStore(ctx, e)
	if err != nil {
		return err
	}
	defer sh.close()

	catalog := menu.NewCatalog(nil)
	if err := catalog.Reload(ctx, sh.store); err != nil {
		return errors.Wrap(err, "load menu")
	}

	var consumer *messaging.Consumer
	if e.cfg.RabbitMQ.Enabled {
		conn, err := messaging.New(e.cfg, e.log)
		if err != nil {
			return errors.Wrap(err, "failed to initialize messaging")
		}
		consumer = messaging.NewQueueConsumer(conn, e.log, messaging.CatalogRefreshQueue(), "ordering-service", 1)
		defer consumer.Close()
	}

	g, gctx := errgroup.WithContext(ctx)
	routes := orderingStack(gctx, g, e, catalog, sh.health)
	g.Go(func() error {
		return server.Serve(gctx, newHTTPServer(portOr(c, e.cfg.HTTP.OrderingPort), routes), e.log)
	})
	switch catalogRefreshMode(e.cfg) {
	case refreshByEvents:
		g.Go(func() error {
			err := consumer.StartConsuming(gctx, menu.RefreshHandler(catalog, sh.store, e.log))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	case refreshByPolling:
		e.log.Warn("catalog_polling", "RabbitMQ disabled, polling the menu store for changes", "startup", map[string]interface{}{
			"interval": e.cfg.Storage.CatalogReloadInterval.String(),
		})
		g.Go(func() error {
			catalog.RunReloader(gctx, sh.store, e.cfg.Storage.CatalogReloadInterval, func(err error) {
				e.log.Error("catalog_reload_failed", "Failed to reload menu", "", err, nil)
			})
			return nil
		})
	case refreshNever:
		if e.cfg.Storage.Driver != config.DriverMemory {
			e.log.Warn("catalog_static", "Menu changes from other processes will not be seen", "startup", nil)
		}
	}

	return wait(g, e)
}

type refreshMode int

const (
	refreshNever refreshMode = iota
	refreshByEvents
	refreshByPolling
)

// catalogRefreshMode decides how a standalone ordering service learns about
// new meals. A memory store is private to the process, so only shared SQL
// stores are polled.
func catalogRefreshMode(cfg *config.Config) refreshMode {
	switch {
	case cfg.RabbitMQ.Enabled:
		return refreshByEvents
	case cfg.Storage.Driver == config.DriverMemory:
		return refreshNever
	case cfg.Storage.CatalogReloadInterval > 0:
		return refreshByPolling
	default:
		return refreshNever
	}
}

func runChefService(c *cli.Context) error {
	e, err := setup(c, "chef-service")
	if err != nil {
		return err
	}
	ctx := c.Context

	sh, err := openStore(ctx, e)
	if err != nil {
		return err
	}
	defer sh.close()

	publisher, closePublisher, err := openPublisher(e)
	if err != nil {
		return err
	}
	defer closePublisher()

	editor := menu.NewEditor(sh.store, publisher, e.log)
	routes := chef.NewHandler(editor, sh.health, e.log).SetupRoutes()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx, newHTTPServer(portOr(c, e.cfg.HTTP.ChefPort), routes), e.log)
	})
	return wait(g, e)
}

// runServe shares one store between both surfaces; submissions refresh the
// catalog in process and are also published when RabbitMQ is enabled.
func runServe(c *cli.Context) error {
	e, err := setup(c, "golden-palette")
	if err != nil {
		return err
	}
	ctx := c.Context

	sh, err := openStore(ctx, e)
	if err != nil {
		return err
	}
	defer sh.close()

	catalog := menu.NewCatalog(nil)
	if err := catalog.Reload(ctx, sh.store); err != nil {
		return errors.Wrap(err, "load menu")
	}

	publisher, closePublisher, err := openPublisher(e)
	if err != nil {
		return err
	}
	defer closePublisher()

	dispatchers := []menu.EventDispatcher{menu.LocalRefresher(catalog, sh.store, e.log)}
	if publisher != nil {
		dispatchers = append(dispatchers, publisher)
	}
	editor := menu.NewEditor(sh.store, menu.FanOut(dispatchers...), e.log)

	g, gctx := errgroup.WithContext(ctx)
	orderingRoutes := orderingStack(gctx, g, e, catalog, sh.health)
	chefRoutes := chef.NewHandler(editor, sh.health, e.log).SetupRoutes()

	g.Go(func() error {
		return server.Serve(gctx, newHTTPServer(e.cfg.HTTP.OrderingPort, orderingRoutes), e.log)
	})
	g.Go(func() error {
		return server.Serve(gctx, newHTTPServer(e.cfg.HTTP.ChefPort, chefRoutes), e.log)
	})
	return wait(g, e)
}

func runNotificationSubscriber(c *cli.Context) error {
	e, err := setup(c, "notification-subscriber")
	if err != nil {
		return err
	}

	senders := []notification.Sender{notification.NewConsoleSender(os.Stdout)}
	if e.cfg.Telegram.Token != "" {
		tg, err := notification.NewTelegramSender(e.cfg.Telegram.Token, e.cfg.Telegram.ChatID)
		if err != nil {
			return err
		}
		senders = append(senders, tg)
	}

	conn, err := messaging.New(e.cfg, e.log)
	if err != nil {
		return errors.Wrap(err, "failed to initialize messaging")
	}
	consumer := messaging.NewConsumer(conn, e.log, messaging.ChefNotificationsQueue, "notification-subscriber", c.Int("prefetch"))

	return notification.NewSubscriber(consumer, e.log, senders...).Run(c.Context)
}

func runMigrate(c *cli.Context) error {
	e, err := setup(c, "migrate")
	if err != nil {
		return err
	}
	return database.RunMigrations(e.cfg, e.log)
}

func runAddMeal(c *cli.Context) error {
	e, err := setup(c, "add-meal")
	if err != nil {
		return err
	}
	ctx := c.Context

	details, err := models.NewMealDetails(c.String("category"), c.String("name"), c.String("description"), c.String("price"), "")
	if err != nil {
		return err
	}

	sh, err := openStore(ctx, e)
	if err != nil {
		return err
	}
	defer sh.close()

	publisher, closePublisher, err := openPublisher(e)
	if err != nil {
		return err
	}
	defer closePublisher()

	requestID := logger.GenerateRequestID()
	editor := menu.NewEditor(sh.store, publisher, e.log)

	if choice := c.String("image"); choice != "" {
		dir := c.String("media-dir")
		if dir == "" {
			dir = e.cfg.Media.Directory
		}
		outcome, err := editor.AttachImage(ctx, menu.DirectoryLibrary{Dir: dir, Choice: choice}, &details, requestID)
		if err != nil {
			return err
		}
		if outcome == menu.PermissionDenied {
			fmt.Fprintln(os.Stderr, menu.PermissionDeniedMessage)
		}
	}

	item, err := editor.SubmitMeal(ctx, details, requestID)
	if err != nil {
		return err
	}

	out := json.NewEncoder(c.App.Writer)
	out.SetIndent("", "  ")
	return out.Encode(item)
}

func wait(g *errgroup.Group, e *env) error {
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	e.log.Info("service_stopped", "Service stopped gracefully", "shutdown", nil)
	return nil
}
