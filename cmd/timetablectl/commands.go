package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/app"
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "timetablectl",
		Short:         "Operate the timetable service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCommand(), newGenerateCommand(), newLockCommand(true), newLockCommand(false), newTokenCommand())
	return root
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *database.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
					return nil
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *database.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the unlocked part of the timetable",
		Example: `  # Rebuild the grid and print placed counts and conflicts as JSON
  timetablectl generate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(c *app.Container) error {
				result, err := c.Generator.Generate(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, dto.NewGenerateTimetableResponse(result))
			})
		},
	}
}

func newLockCommand(locked bool) *cobra.Command {
	use, short := "unpin <scheduled-class-id>", "Unlock a scheduled class so regeneration may move it"
	if locked {
		use, short = "pin <scheduled-class-id>", "Lock a scheduled class so regeneration keeps it"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid scheduled class id %q", args[0])
			}
			return withContainer(cmd, func(c *app.Container) error {
				placement, err := c.Timetable.SetLocked(cmd.Context(), id, locked)
				if err != nil {
					return err
				}
				return printJSON(cmd, placement)
			})
		},
	}
}

func newTokenCommand() *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint an access token signed with JWT_SECRET",
		Example: `  timetablectl token admin-1 --role ADMIN
  timetablectl token 7f6c --role TEACHER --ttl 2h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.JWT.Expiration
			}
			tokens := service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, Expiry: ttl})
			token, expiresAt, err := tokens.Issue(args[0], models.UserRole(role))
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{"token": token, "expires_at": expiresAt})
		},
	}
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "ADMIN, TEACHER or STUDENT")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_EXPIRATION)")
	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(m *database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(cmd.Context(), db)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck
	return fn(migrator)
}

func withContainer(cmd *cobra.Command, fn func(c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	container, err := app.New(cmd.Context(), cfg, logr.With(zap.String("component", "cli")))
	if err != nil {
		return err
	}
	defer container.Close() //nolint:errcheck
	return fn(container)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
