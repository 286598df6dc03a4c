package resolve_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func reservation(id string, from, to time.Time) domain.Reservation {
	return domain.Reservation{ID: id, VenueID: "v-1", Range: domain.MustDateRange(from, to), GuestCount: 1}
}

func TestResolveBlockedDates(t *testing.T) {
	reservations := []domain.Reservation{
		reservation("b-1", day(6, 1), day(6, 3)),
		reservation("b-2", day(6, 3), day(6, 4)),
		reservation("b-3", day(6, 10), day(6, 10)),
	}

	t.Run("every reserved day is blocked and nothing else", func(t *testing.T) {
		blocked := ResolveBlockedDates(reservations, domain.PolicyInclusive)

		for _, r := range reservations {
			for _, d := range r.Range.ExpandToDays() {
				assert.True(t, blocked.Contains(d), "day %s must be blocked", d.Format(domain.DateFormat))
			}
		}
		assert.Equal(t, 5, blocked.Len())
		assert.False(t, blocked.Contains(day(6, 5)))
		assert.False(t, blocked.Contains(day(5, 31)))
	})

	t.Run("idempotent", func(t *testing.T) {
		first := ResolveBlockedDates(reservations, domain.PolicyInclusive)
		second := ResolveBlockedDates(reservations, domain.PolicyInclusive)
		assert.True(t, first.Equal(second))
		assert.Equal(t, first.Days(), second.Days())
	})

	t.Run("order does not matter", func(t *testing.T) {
		reversed := []domain.Reservation{reservations[2], reservations[1], reservations[0]}
		assert.True(t, ResolveBlockedDates(reservations, domain.PolicyInclusive).
			Equal(ResolveBlockedDates(reversed, domain.PolicyInclusive)))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, 0, ResolveBlockedDates(nil, domain.PolicyInclusive).Len())
	})

	t.Run("exclusive checkout frees the checkout day", func(t *testing.T) {
		blocked := ResolveBlockedDates(reservations, domain.PolicyExclusiveCheckout)
		assert.Equal(t, []time.Time{day(6, 1), day(6, 2), day(6, 3), day(6, 10)}, blocked.Days())
	})
}

func TestBuildCalendar(t *testing.T) {
	blocked := domain.NewBlockedDateSet(day(6, 1), day(6, 2))

	days := BuildCalendar(time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC), blocked, time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC))

	assert.Len(t, days, 30)
	assert.Equal(t, day(6, 1), days[0].Date)
	assert.True(t, days[0].Blocked)
	assert.True(t, days[0].Past)
	assert.True(t, days[1].Blocked)
	assert.False(t, days[1].Past, "today is selectable")
	assert.True(t, days[2].Available())
	assert.Equal(t, day(6, 30), days[29].Date)
}
