package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/domain"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
	quotePrice "github.com/m04kA/holidaze-booking/internal/usecase/quote_price"
)

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	var venueID, from, to string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the price of a stay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}
			defer log.Close()

			a, err := newApp(cmd.Context(), cfg, log, credentials.NewStatic(domain.Credential{}), nil)
			if err != nil {
				return err
			}
			defer a.close()

			return runQuote(cmd.Context(), a, cmd.OutOrStdout(), venueID, from, to)
		},
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "venue id")
	cmd.Flags().StringVar(&from, "from", "", "check-in date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "check-out date YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("venue")
	return cmd
}

func runQuote(ctx context.Context, a *app, out io.Writer, venueID, from, to string) error {
	dateRange, err := handlers.ParseDateRange(from, to, a.location)
	if err != nil {
		return err
	}

	constraints, err := a.venues.GetVenueConstraints(ctx, venueID)
	if err != nil {
		return err
	}

	q := quotePrice.Calculate(dateRange, *constraints)
	fmt.Fprintf(out, "%s %s: %d nights x %.2f = %.2f\n",
		constraints.Name, dateRange, q.Nights, q.PricePerNight, q.Total)
	return nil
}
