package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/domain"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
)

func newBookCmd(opts *rootOptions) *cobra.Command {
	var venueID, from, to, token string
	var guests int

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Validate and submit a reservation",
		Long: "Validate and submit a reservation. The access token is taken from --token, " +
			"HOLIDAZE_ACCESS_TOKEN or holidaze.access_token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer log.Close()

			if token == "" {
				token = cfg.Holidaze.AccessToken
			}
			cred := domain.Credential{}
			if token != "" {
				// Нечитаемый токен оставляем пустым: проверка вернет Unauthenticated
				if parsed, err := credentials.FromToken(token); err == nil {
					cred = parsed
				} else {
					log.Warn("Ignoring access token: %v", err)
				}
			}

			a, err := newApp(cmd.Context(), cfg, log, credentials.NewStatic(cred), nil)
			if err != nil {
				return err
			}
			defer a.close()

			return runBook(cmd.Context(), a, cmd.OutOrStdout(), bookInput{venueID, from, to, guests})
		},
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "venue id")
	cmd.Flags().StringVar(&from, "from", "", "check-in date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "check-out date YYYY-MM-DD")
	cmd.Flags().IntVar(&guests, "guests", domain.MinGuests, "number of guests")
	cmd.Flags().StringVar(&token, "token", "", "Holidaze access token")
	_ = cmd.MarkFlagRequired("venue")
	return cmd
}

type bookInput struct {
	venueID  string
	from, to string
	guests   int
}

func runBook(ctx context.Context, a *app, out io.Writer, in bookInput) error {
	dateRange, err := handlers.ParseDateRange(in.from, in.to, a.location)
	if err != nil {
		return err
	}

	constraints, err := a.venues.GetVenueConstraints(ctx, in.venueID)
	if err != nil {
		return err
	}

	if _, err := a.submitter.Load(ctx, in.venueID); err != nil {
		return err
	}

	req := domain.BookingRequest{VenueID: in.venueID, Range: dateRange, GuestCount: in.guests}
	res, err := a.submitter.Submit(ctx, req, *constraints)
	if err != nil {
		return fmt.Errorf("reservation not created: %w", err)
	}

	fmt.Fprintf(out, "reservation %s created for %s (%d guests)\n",
		res.Reservation.ID, res.Reservation.Range, res.Reservation.GuestCount)
	if res.RefreshErr != nil {
		fmt.Fprintf(out, "warning: availability could not be reloaded: %v\n", res.RefreshErr)
	} else if res.Availability != nil {
		fmt.Fprintf(out, "venue %s now has %d blocked days\n", in.venueID, res.Availability.Blocked.Len())
	}
	return nil
}
