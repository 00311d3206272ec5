package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/mrlokans/authcore/internal/auth"
	"github.com/mrlokans/authcore/internal/database"
	"github.com/mrlokans/authcore/internal/database/users"
	"github.com/mrlokans/authcore/internal/redact"
)

// Default timeout for user commands.
const defaultUserTimeout = 30 * time.Second

func newUserCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(newUserCreateCmd(opts))
	cmd.AddCommand(newUserResetTokenCmd(opts))
	cmd.AddCommand(newUserListCmd(opts))

	return cmd
}

// accounts is an open database plus the services built on it.
type accounts struct {
	db      *database.Database
	users   *users.Repository
	service *auth.Service
}

func openAccounts(opts *options) (*accounts, error) {
	cfg := opts.load()
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	repo := users.NewRepository(db.DB)
	return &accounts{
		db:      db,
		users:   repo,
		service: auth.NewService(repo, auth.NewBcryptHasher(cfg.Auth.BcryptCost)),
	}, nil
}

func (a *accounts) Close() {
	_ = a.db.Close()
}

func newUserCreateCmd(opts *options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user with an email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
			defer cancel()

			acc, err := openAccounts(opts)
			if err != nil {
				return err
			}
			defer acc.Close()

			user, err := acc.service.RegisterUser(ctx, email, password)
			if err != nil {
				return oops.Code("USER_CREATE_FAILED").Wrap(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserResetTokenCmd(opts *options) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-token",
		Short: "Issue a password reset token and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
			defer cancel()

			acc, err := openAccounts(opts)
			if err != nil {
				return err
			}
			defer acc.Close()

			token, err := acc.service.GetResetPasswordToken(ctx, email)
			if err != nil {
				return oops.Code("RESET_TOKEN_FAILED").Wrap(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// newUserListCmd prints one line per user with personal fields redacted.
func newUserListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users with personal data redacted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
			defer cancel()

			acc, err := openAccounts(opts)
			if err != nil {
				return err
			}
			defer acc.Close()

			all, err := acc.users.All(ctx)
			if err != nil {
				return err
			}
			for _, u := range all {
				fmt.Fprintln(cmd.OutOrStdout(), redact.FormatRecord(redact.PIIFields, [][2]string{
					{"id", u.ID},
					{"email", u.Email},
					{"name", u.DisplayName()},
					{"created_at", u.CreatedAt.UTC().Format(time.RFC3339)},
				}))
			}
			return nil
		},
	}
}
