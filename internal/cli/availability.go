package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/holidaze-booking/internal/domain"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
)

func newAvailabilityCmd(opts *rootOptions) *cobra.Command {
	var venueID, month string

	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Print blocked days of a venue",
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

			return runAvailability(cmd.Context(), a, cmd.OutOrStdout(), venueID, month)
		},
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "venue id")
	cmd.Flags().StringVar(&month, "month", "", "print calendar for month YYYY-MM")
	_ = cmd.MarkFlagRequired("venue")
	return cmd
}

func runAvailability(ctx context.Context, a *app, out io.Writer, venueID, month string) error {
	if month == "" {
		resp, err := a.resolver.Execute(ctx, &resolveAvailability.Request{VenueID: venueID})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "venue %s: %d reservations, %d blocked days (policy=%s)\n",
			venueID, len(resp.Reservations), resp.Blocked.Len(), a.resolver.Policy())
		for _, day := range resp.Blocked.Days() {
			fmt.Fprintln(out, day.Format(domain.DateFormat))
		}
		return nil
	}

	m, err := time.ParseInLocation(domain.MonthFormat, month, a.location)
	if err != nil {
		return fmt.Errorf("invalid --month %q (want YYYY-MM)", month)
	}

	cal, err := a.resolver.Calendar(ctx, &resolveAvailability.CalendarRequest{VenueID: venueID, Month: m})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "venue %s, %s\n", venueID, cal.Month.Format("January 2006"))
	fmt.Fprintln(out, "Mo Tu We Th Fr Sa Su")
	fmt.Fprint(out, renderCalendar(cal.Days))
	fmt.Fprintln(out, "xx - blocked, .. - past")
	return nil
}

// renderCalendar рисует месяц по неделям, начиная с понедельника
func renderCalendar(days []resolveAvailability.CalendarDay) string {
	if len(days) == 0 {
		return ""
	}

	var b strings.Builder
	offset := (int(days[0].Date.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))

	for i, d := range days {
		switch {
		case d.Blocked:
			b.WriteString("xx")
		case d.Past:
			b.WriteString("..")
		default:
			fmt.Fprintf(&b, "%2d", d.Date.Day())
		}
		if (offset+i+1)%7 == 0 || i == len(days)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}
