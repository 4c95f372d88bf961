package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "golden-palette",
		Usage: "Golden Palette restaurant ordering and menu services",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log_level from the configuration",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ordering-service",
				Usage:  "serve the customer menu, carts and checkout",
				Flags:  []cli.Flag{portFlag("ordering port, overrides http.ordering_port")},
				Action: runOrderingService,
			},
			{
				Name:   "chef-service",
				Usage:  "serve the chef menu editor",
				Flags:  []cli.Flag{portFlag("chef port, overrides http.chef_port")},
				Action: runChefService,
			},
			{
				Name:   "serve",
				Usage:  "run the ordering and chef services in one process",
				Action: runServe,
			},
			{
				Name:  "notification-subscriber",
				Usage: "print and forward new meal notifications",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "prefetch", Value: 1, Usage: "RabbitMQ prefetch count"},
				},
				Action: runNotificationSubscriber,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations for the configured storage driver",
				Action: runMigrate,
			},
			{
				Name:  "add-meal",
				Usage: "submit a new dish from the command line",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Required: true, Usage: "Starters, Main Menu or Desserts"},
					&cli.StringFlag{Name: "name", Usage: "dish name"},
					&cli.StringFlag{Name: "description", Usage: "dish description"},
					&cli.StringFlag{Name: "price", Usage: "price in rand, e.g. 85.50"},
					&cli.StringFlag{Name: "image", Usage: "image file to pick from the media directory"},
					&cli.StringFlag{Name: "media-dir", Usage: "media directory, overrides media.directory"},
				},
				Action: runAddMeal,
			},
		},
	}
}

func portFlag(usage string) cli.Flag {
	return &cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: usage}
}
