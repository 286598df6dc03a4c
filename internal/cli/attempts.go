package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/m04kA/holidaze-booking/internal/domain"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
)

var errJournalDisabled = errors.New("attempt journal is disabled, set database.enabled = true")

type attemptLister interface {
	ListByVenue(ctx context.Context, filter domain.AttemptFilter) ([]domain.SubmissionAttempt, error)
}

func newAttemptsCmd(opts *rootOptions) *cobra.Command {
	var (
		venueID  string
		owner    string
		outcomes []string
		limit    uint64
	)

	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Print recent submission attempts of a venue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer log.Close()

			if !cfg.Database.Enabled {
				return errJournalDisabled
			}

			a, err := newApp(cmd.Context(), cfg, log, credentials.NewStatic(domain.Credential{}), nil)
			if err != nil {
				return err
			}
			defer a.close()

			return runAttempts(cmd.Context(), a.journal, cmd.OutOrStdout(), venueID, owner, outcomes, limit)
		},
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "venue id")
	cmd.Flags().StringVar(&owner, "owner", "", "only attempts of this user (token subject); empty lists everyone")
	cmd.Flags().StringSliceVar(&outcomes, "outcome", nil, "filter by outcome (succeeded, rejected, conflict, ...)")
	cmd.Flags().Uint64Var(&limit, "limit", 20, "max attempts to print")
	_ = cmd.MarkFlagRequired("venue")
	return cmd
}

func runAttempts(ctx context.Context, journal attemptLister, out io.Writer, venueID, owner string, outcomes []string, limit uint64) error {
	filter := domain.AttemptFilter{VenueID: venueID, Owner: owner, Limit: limit}
	for _, o := range outcomes {
		filter.Outcomes = append(filter.Outcomes, domain.SubmissionOutcome(o))
	}

	attempts, err := journal.ListByVenue(ctx, filter)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Fprintf(out, "venue %s: no attempts\n", venueID)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tOWNER\tRANGE\tGUESTS\tOUTCOME\tDETAIL")
	for _, a := range attempts {
		detail := ""
		switch {
		case a.ReservationID != nil:
			detail = *a.ReservationID
		case a.ErrorMessage != nil:
			detail = *a.ErrorMessage
		}
		who := a.Owner
		if who == "" {
			who = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			a.StartedAt.Format("2006-01-02 15:04:05"), who, a.Range, a.GuestCount, a.Outcome, detail)
	}
	return tw.Flush()
}
