// Package main is the BuyOne command line. One binary runs any of the four
// services (gateway, product, user, media) and manages the database schema.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/phrazzld/buyone/internal/config"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/urfave/cli/v3"
)

// buildFunc wires one service and returns its HTTP handler.
type buildFunc func(app *application, ctx context.Context) (http.Handler, error)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "buyone",
		Usage: "BuyOne marketplace backend",
		Commands: []*cli.Command{
			serviceCommand("gateway", "Run the API gateway", (*application).buildGateway),
			serviceCommand("product", "Run the product service", (*application).buildProduct),
			serviceCommand("user", "Run the user service", (*application).buildUser),
			serviceCommand("media", "Run the media service", (*application).buildMedia),
			migrateCommand(),
			createAdminCommand(),
		},
	}
}

func serviceCommand(name, usage string, build buildFunc) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runService(ctx, name, build)
		},
	}
}

// loadConfig loads configuration and installs the service logger as default.
func loadConfig(service string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server, service)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return cfg, l, nil
}

func runService(ctx context.Context, name string, build buildFunc) error {
	cfg, l, err := loadConfig(name)
	if err != nil {
		return err
	}

	l.Info("configuration loaded",
		"service", name,
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app := newApplication(cfg, l)
	handler, err := build(app, ctx)
	if err != nil {
		app.cleanup(context.WithoutCancel(ctx))
		return fmt.Errorf("failed to start %s service: %w", name, err)
	}

	return app.serve(ctx, handler)
}

func migrateCommand() *cli.Command {
	run := func(command string) *cli.Command {
		return &cli.Command{
			Name:  command,
			Usage: fmt.Sprintf("Run goose %s against the configured database", command),
			Action: func(ctx context.Context, _ *cli.Command) error {
				cfg, l, err := loadConfig("migrate")
				if err != nil {
					return err
				}
				db, err := openDatabase(ctx, cfg.Database.URL, l)
				if err != nil {
					return err
				}
				defer func() {
					if err := db.Close(); err != nil {
						l.Error("failed to close database connection", "error", redact.Error(err))
					}
				}()
				return runMigrations(ctx, db, command, l)
			},
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage database migrations",
		Commands: []*cli.Command{
			run("up"),
			run("down"),
			run("status"),
			{
				Name:      "create",
				Usage:     "Create a new SQL migration",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Value: migrationsSourceDir,
						Usage: "directory to write the migration into",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					// Creating a file needs no database, so configuration is not loaded.
					return createMigration(cmd.String("dir"), cmd.Args().First(), slog.Default())
				},
			},
		},
	}
}
