// Command zoohub-admin bundles operational tasks for ZooKeeper Hub:
// migrations, database resets, development seeding, and staff account
// management.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/zoohub/zookeeper-hub/config"
	"github.com/zoohub/zookeeper-hub/internal/bootstrap"
	"github.com/zoohub/zookeeper-hub/internal/data"
	"github.com/zoohub/zookeeper-hub/internal/devseed"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
)

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

type command struct {
	name        string
	description string
	run         func(cmdCtx *commandContext, args []string) error
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrate,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed development data",
			run:         runDBSeed,
		},
		"create-user": {
			name:        "create-user",
			description: "Create a staff account with an initial role and password",
			run:         runCreateUser,
		},
		"set-role": {
			name:        "set-role",
			description: "Assign or clear the role on an existing staff account",
			run:         runSetRole,
		},
	}
}

func printUsage() error {
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := writef(os.Stderr, "usage: zoohub-admin <command> [flags]\n\ncommands:\n"); err != nil {
		return err
	}
	for _, name := range names {
		if err := writef(os.Stderr, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func runMigrate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 2*time.Minute, "overall command timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 5*time.Minute, "overall command timeout")
	seed := fs.Bool("seed", false, "seed development data after the reset")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	allowRemote := fs.Bool("allow-remote", false, "permit running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := guardRemoteHost(cmdCtx, *allowRemote, "drop and recreate the public schema"); err != nil {
		return err
	}
	if err := confirmAction(*yes, fmt.Sprintf(
		"reset database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if _, err := db.ExecContext(ctx, "DROP SCHEMA public CASCADE; CREATE SCHEMA public"); err != nil {
			return fmt.Errorf("reset schema: %w", err)
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		if *seed {
			cmdCtx.Logger.Info("seeding development data after reset")
			if err := seedDatabase(ctx, db, cmdCtx.Logger); err != nil {
				return err
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 2*time.Minute, "overall command timeout")
	allowRemote := fs.Bool("allow-remote", false, "permit running against a non-local database host")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := guardRemoteHost(cmdCtx, *allowRemote, "seed development data on the configured database"); err != nil {
		return err
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		cmdCtx.Logger.Info("seeding development data")
		if err := seedDatabase(ctx, db, cmdCtx.Logger); err != nil {
			return err
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

func seedDatabase(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	svcs, err := devseed.NewServices(db)
	if err != nil {
		return err
	}
	if err := devseed.Run(ctx, svcs, logger); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	return nil
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	email := fs.String("email", "", "staff email address (required)")
	firstName := fs.String("first-name", "", "first name (required)")
	lastName := fs.String("last-name", "", "last name (required)")
	role := fs.String("role", "", "initial role (admin, zookeeper, vet, researcher; empty for unassigned)")
	password := fs.String("password", "", "initial password (required)")
	timeout := fs.Duration("timeout", time.Minute, "overall command timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *firstName == "" || *lastName == "" || *password == "" {
		return errors.New("create-user requires -email, -first-name, -last-name, and -password")
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		svcs, err := devseed.NewServices(db)
		if err != nil {
			return err
		}

		user, err := svcs.CreateStaffUser(ctx, &model.CreateStaffUserRequest{
			Email:     *email,
			FirstName: *firstName,
			LastName:  *lastName,
			Role:      domainauth.Role(strings.ToLower(strings.TrimSpace(*role))),
			Password:  *password,
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		cmdCtx.Logger.Info("staff user created", "id", user.ID, "email", user.Email, "role", user.Role)
		return nil
	})
}

func runSetRole(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	email := fs.String("email", "", "staff email address (required)")
	role := fs.String("role", "", "new role (admin, zookeeper, vet, researcher; empty clears the role)")
	timeout := fs.Duration("timeout", time.Minute, "overall command timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("set-role requires -email")
	}

	return withDatabase(cmdCtx, *timeout, func(ctx context.Context, db *sql.DB) error {
		userRepo := data.NewUserRepo(db)
		user, err := userRepo.GetByEmail(ctx, *email)
		if err != nil {
			return fmt.Errorf("look up user: %w", err)
		}

		svcs, err := devseed.NewServices(db)
		if err != nil {
			return err
		}

		updated, err := svcs.SetStaffRole(ctx, user.ID, *role)
		if err != nil {
			return fmt.Errorf("set role: %w", err)
		}

		cmdCtx.Logger.Info("staff role updated", "email", updated.Email, "role", updated.Role)
		return nil
	})
}

// withDatabase connects, runs fn under a signal-aware timeout context,
// and closes the connection afterwards.
func withDatabase(cmdCtx *commandContext, timeout time.Duration, fn func(context.Context, *sql.DB) error) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	return fn(ctx, db)
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) error {
	host := cmdCtx.Config.Postgres.Host
	if allow || !isLikelyRemoteHost(host) {
		return nil
	}
	return fmt.Errorf("refusing to %s on remote host %q without --allow-remote", action, host)
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" || h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return !strings.HasSuffix(h, ".local")
}

func confirmAction(yes bool, action string) error {
	if yes {
		return nil
	}
	if err := writef(os.Stderr, "about to %s; type 'yes' to continue: ", action); err != nil {
		return err
	}
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if strings.TrimSpace(answer) != "yes" {
		return errors.New("aborted")
	}
	return nil
}
