package domain

import (
	"errors"
	"time"
)

// ErrInvertedRange is returned when a range ends before it starts
var ErrInvertedRange = errors.New("domain: range end is before range start")

// DateRange represents a closed interval of calendar days.
// Both ends are normalized to midnight. A zero end means the selection is not finished yet.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a normalized range. Zero values are kept as "not set".
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{start: Normalize(start), end: Normalize(end)}
	if r.IsComplete() && r.end.Before(r.start) {
		return DateRange{}, ErrInvertedRange
	}
	return r, nil
}

// MustDateRange is like NewDateRange but panics on an inverted range.
// Intended for fixtures and constants.
func MustDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// Start returns the first day of the range
func (r DateRange) Start() time.Time { return r.start }

// End returns the last day of the range
func (r DateRange) End() time.Time { return r.end }

// IsComplete returns true if both ends of the range are set
func (r DateRange) IsComplete() bool {
	return !r.start.IsZero() && !r.end.IsZero()
}

// Overlaps reports whether two closed ranges share at least one day.
// A range ending on day N and a range starting on day N overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	if !r.IsComplete() || !other.IsComplete() {
		return false
	}
	return !r.start.After(other.end) && !other.start.After(r.end)
}

// Overlaps is the free-function form of DateRange.Overlaps
func Overlaps(a, b DateRange) bool {
	return a.Overlaps(b)
}

// Contains returns true if the day falls within the range, ends included
func (r DateRange) Contains(day time.Time) bool {
	if !r.IsComplete() || day.IsZero() {
		return false
	}
	d := Normalize(day)
	return !d.Before(r.start) && !d.After(r.end)
}

// Nights returns the number of charged nights: the checkout day itself is not counted
func (r DateRange) Nights() int {
	if !r.IsComplete() {
		return 0
	}
	return DaysBetween(r.start, r.end)
}

// ExpandToDays returns one normalized value per day from start to end inclusive.
// A zero-length range yields exactly one day, an incomplete range yields none.
func (r DateRange) ExpandToDays() []time.Time {
	if !r.IsComplete() {
		return []time.Time{}
	}

	days := make([]time.Time, 0, DaysBetween(r.start, r.end)+1)
	for day := r.start; !day.After(r.end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// String renders the range as "YYYY-MM-DD..YYYY-MM-DD"
func (r DateRange) String() string {
	return formatDay(r.start) + ".." + formatDay(r.end)
}

// Normalize truncates the time of day, keeping the location of t
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b.
// Computed on the calendar date, so DST shifts do not produce off-by-one results.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "?"
	}
	return t.Format(DateFormat)
}
