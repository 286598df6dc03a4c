package resolve_availability

import (
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// ResolveBlockedDates строит набор занятых дней из бронирований площадки.
// Чистая функция: набор всегда строится заново, инкрементально не дополняется.
//
// Примеры (PolicyInclusive):
// - бронирование 06-01..06-03 → заняты 06-01, 06-02, 06-03
// - бронирования 06-01..06-02 и 06-02..06-04 → заняты 06-01..06-04, 06-02 один раз
//
// При PolicyExclusiveCheckout день выезда не блокируется (кроме однодневных бронирований).
func ResolveBlockedDates(reservations []domain.Reservation, policy domain.OverlapPolicy) domain.BlockedDateSet {
	days := make([]time.Time, 0, len(reservations))
	for _, reservation := range reservations {
		days = append(days, domain.OccupiedDays(reservation.Range, policy)...)
	}
	return domain.NewBlockedDateSet(days...)
}

// BuildCalendar раскладывает месяц по дням с отметками занятости.
// Дни раньше today помечаются как прошедшие.
func BuildCalendar(month time.Time, blocked domain.BlockedDateSet, today time.Time) []CalendarDay {
	first := firstOfMonth(month)
	todayOnly := domain.Normalize(today.In(first.Location()))

	days := make([]CalendarDay, 0, 31)
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		days = append(days, CalendarDay{
			Date:    day,
			Blocked: blocked.Contains(day),
			Past:    day.Before(todayOnly),
		})
	}
	return days
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
