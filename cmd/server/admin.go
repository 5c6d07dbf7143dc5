package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/buyone/internal/domain"
	"github.com/phrazzld/buyone/internal/platform/postgres"
	"github.com/phrazzld/buyone/internal/redact"
	"github.com/phrazzld/buyone/internal/service/auth"
	"github.com/phrazzld/buyone/internal/store"
	"github.com/urfave/cli/v3"
)

// createAdmin stores a new ADMIN account. Registration over HTTP never
// grants ADMIN, so the first administrator is created from the command line.
func createAdmin(ctx context.Context, users store.UserStore, hasher auth.PasswordHasher, name, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	hashed, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(strings.TrimSpace(name), email, hashed, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("invalid admin user: %w", err)
	}

	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, fmt.Errorf("email %s is already registered", email)
		}
		return nil, fmt.Errorf("failed to save admin user: %w", err)
	}
	return user, nil
}

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "Create an ADMIN account in the user database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true, Usage: "login email"},
			&cli.StringFlag{Name: "password", Required: true, Usage: "login password", Sources: cli.EnvVars("BUYONE_ADMIN_PASSWORD")},
			&cli.StringFlag{Name: "name", Value: "Administrator", Usage: "display name"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, l, err := loadConfig("admin")
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

			user, err := createAdmin(ctx,
				postgres.NewPostgresUserStore(db, l),
				auth.NewBcryptHasher(cfg.Auth.BCryptCost),
				cmd.String("name"), cmd.String("email"), cmd.String("password"))
			if err != nil {
				return err
			}

			l.Info("admin user created", "user_id", user.ID)
			return nil
		},
	}
}
