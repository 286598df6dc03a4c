package domain

import (
	"sort"
	"time"
)

// BlockedDateSet is an immutable set of unavailable days.
// It is rebuilt from the reservation list on every refresh and never patched in place.
type BlockedDateSet struct {
	days map[string]time.Time
}

// NewBlockedDateSet builds a set from the given days. Duplicates collapse.
func NewBlockedDateSet(days ...time.Time) BlockedDateSet {
	s := BlockedDateSet{days: make(map[string]time.Time, len(days))}
	for _, day := range days {
		if day.IsZero() {
			continue
		}
		d := Normalize(day)
		s.days[d.Format(DateFormat)] = d
	}
	return s
}

// Contains returns true if the day is blocked
func (s BlockedDateSet) Contains(day time.Time) bool {
	if day.IsZero() {
		return false
	}
	_, ok := s.days[Normalize(day).Format(DateFormat)]
	return ok
}

// Len returns the number of blocked days
func (s BlockedDateSet) Len() int {
	return len(s.days)
}

// Days returns the blocked days in ascending order
func (s BlockedDateSet) Days() []time.Time {
	result := make([]time.Time, 0, len(s.days))
	for _, d := range s.days {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}

// Equal returns true if both sets contain the same days
func (s BlockedDateSet) Equal(other BlockedDateSet) bool {
	if len(s.days) != len(other.days) {
		return false
	}
	for key := range s.days {
		if _, ok := other.days[key]; !ok {
			return false
		}
	}
	return true
}

// ConflictingDays returns the blocked days that the candidate range would occupy.
// Under PolicyExclusiveCheckout the candidate's own checkout day is not occupied.
func (s BlockedDateSet) ConflictingDays(r DateRange, policy OverlapPolicy) []time.Time {
	conflicts := make([]time.Time, 0)
	for _, day := range OccupiedDays(r, policy) {
		if s.Contains(day) {
			conflicts = append(conflicts, day)
		}
	}
	return conflicts
}

// IntersectsRange returns true if any blocked day falls inside the range
func (s BlockedDateSet) IntersectsRange(r DateRange, policy OverlapPolicy) bool {
	for _, day := range OccupiedDays(r, policy) {
		if s.Contains(day) {
			return true
		}
	}
	return false
}

// OccupiedDays returns the days a stay occupies under the given policy.
// A zero-length stay always occupies its single day.
func OccupiedDays(r DateRange, policy OverlapPolicy) []time.Time {
	days := r.ExpandToDays()
	if policy == PolicyExclusiveCheckout && len(days) > 1 {
		return days[:len(days)-1]
	}
	return days
}
