package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/mrlokans/authcore/internal/audit"
	auditRepo "github.com/mrlokans/authcore/internal/database/audit"
	"github.com/mrlokans/authcore/internal/redact"
)

// Default retention for events prune.
const defaultEventRetention = 30 * 24 * time.Hour

func newEventsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and prune the authentication audit trail",
	}

	cmd.AddCommand(newEventsListCmd(opts))
	cmd.AddCommand(newEventsPruneCmd(opts))

	return cmd
}

func openAudit(opts *options) (*accounts, *audit.Service, error) {
	acc, err := openAccounts(opts)
	if err != nil {
		return nil, nil, err
	}
	return acc, audit.NewService(auditRepo.NewRepository(acc.db.DB)), nil
}

func newEventsListCmd(opts *options) *cobra.Command {
	var userID string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit events, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
			defer cancel()

			acc, events, err := openAudit(opts)
			if err != nil {
				return err
			}
			defer acc.Close()

			page, total, err := events.GetEvents(ctx, userID, limit, offset)
			if err != nil {
				return oops.Code("EVENTS_LIST_FAILED").Wrap(err)
			}
			for _, ev := range page {
				fmt.Fprintln(cmd.OutOrStdout(), redact.FormatRecord(redact.PIIFields, [][2]string{
					{"at", ev.CreatedAt.UTC().Format(time.RFC3339)},
					{"action", string(ev.Action)},
					{"status", string(ev.Status)},
					{"strategy", ev.Strategy},
					{"user_id", ev.UserID},
					{"ip", ev.IPAddress},
				}))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d events\n", len(page), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user-id", "", "only events of this user")
	cmd.Flags().IntVar(&limit, "limit", auditRepo.DefaultLimit, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "events to skip")

	return cmd
}

func newEventsPruneCmd(opts *options) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit events older than a retention period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return oops.Code("CONFIG_INVALID").Errorf("--older-than must be positive, got %s", olderThan)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
			defer cancel()

			acc, events, err := openAudit(opts)
			if err != nil {
				return err
			}
			defer acc.Close()

			deleted, err := events.DeleteOldEvents(ctx, olderThan)
			if err != nil {
				return oops.Code("EVENTS_PRUNE_FAILED").Wrap(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d events\n", deleted)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", defaultEventRetention, "retention period (e.g. 720h)")

	return cmd
}
