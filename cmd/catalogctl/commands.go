package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-catalog/internal/config"
	"library-catalog/internal/domains/user/model"
	"library-catalog/internal/domains/user/repository"
	"library-catalog/internal/domains/user/service"
	infraCache "library-catalog/internal/infrastructure/cache"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/pkg/container"
	"library-catalog/pkg/jwt"
	"library-catalog/pkg/logger"
)

// app is the slice of the server's dependency graph the commands need.
type app struct {
	store *database.Store
	users service.ServiceInterface
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.App.Environment)

	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	users := service.NewUserService(
		repository.NewSQLRepository(store),
		jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry),
		infraCache.NewMemoryCache(),
		container.UserOptions(cfg),
	)
	return &app{store: store, users: users}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Error("failed to close database", err)
	}
}

// ========================================
// migrate
// ========================================
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s).\n", a.store.Dialect)
			return nil
		},
	}
}

// ========================================
// createsuperuser
// ========================================
func newCreateSuperuserCmd() *cobra.Command {
	var req model.SignupRequest

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				password, err := promptNewPassword()
				if err != nil {
					return err
				}
				req.Password = password
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.users.CreateSuperuser(cmd.Context(), req)
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %q created.\n", u.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "account username")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// ========================================
// promote
// ========================================
func newPromoteCmd() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "promote <username>",
		Short: "Grant (or with --revoke, remove) staff rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			username := args[0]
			if err := a.users.SetStaff(cmd.Context(), username, !revoke); err != nil {
				if errors.Is(err, model.ErrUserNotFound) {
					return fmt.Errorf("user %q does not exist", username)
				}
				return err
			}

			if revoke {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer staff.\n", username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now staff.\n", username)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&revoke, "revoke", false, "remove staff rights instead of granting them")
	return cmd
}

// ========================================
// HELPERS
// ========================================

// readPassword reads a password without echo.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func promptNewPassword() (string, error) {
	password, err := readPassword("Password: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("Password (again): ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

// describe flattens field errors into one line per field.
func describe(err error) error {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %v", name, fields[name]))
	}
	return errors.New(strings.Join(lines, "\n"))
}
