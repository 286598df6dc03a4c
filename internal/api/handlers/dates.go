package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// ParseDay разбирает дату YYYY-MM-DD в часовом поясе loc. Пустая строка - дата не выбрана.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return day, nil
}

// ParseDateRange разбирает пару дат. Одна из дат может быть пустой - диапазон будет незавершенным.
func ParseDateRange(from, to string, loc *time.Location) (domain.DateRange, error) {
	start, err := ParseDay(from, loc)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := ParseDay(to, loc)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.NewDateRange(start, end)
}

// FormatDays переводит дни в строки YYYY-MM-DD
func FormatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(domain.DateFormat))
	}
	return out
}
