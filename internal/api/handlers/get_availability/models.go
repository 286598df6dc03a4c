package get_availability

import (
	"time"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/domain"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
)

// AvailabilityResponse HTTP response model без параметра month
type AvailabilityResponse struct {
	VenueID      string                `json:"venueId"`
	BlockedDates []string              `json:"blockedDates"`
	Reservations []ReservationResponse `json:"reservations"`
	RefreshedAt  string                `json:"refreshedAt"`
}

// ReservationResponse бронирование площадки без данных клиента
type ReservationResponse struct {
	ID       string `json:"id"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Guests   int    `json:"guests"`
}

// CalendarResponse HTTP response model с параметром month
type CalendarResponse struct {
	VenueID string        `json:"venueId"`
	Month   string        `json:"month"`
	Days    []CalendarDay `json:"days"`
}

// CalendarDay день календаря
type CalendarDay struct {
	Date      string `json:"date"`
	Blocked   bool   `json:"blocked"`
	Past      bool   `json:"past"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveAvailability.Response) *AvailabilityResponse {
	reservations := make([]ReservationResponse, 0, len(resp.Reservations))
	for _, r := range resp.Reservations {
		reservations = append(reservations, ReservationResponse{
			ID:       r.ID,
			DateFrom: r.Range.Start().Format(domain.DateFormat),
			DateTo:   r.Range.End().Format(domain.DateFormat),
			Guests:   r.GuestCount,
		})
	}
	return &AvailabilityResponse{
		VenueID:      resp.VenueID,
		BlockedDates: handlers.FormatDays(resp.Blocked.Days()),
		Reservations: reservations,
		RefreshedAt:  resp.RefreshedAt.Format(time.RFC3339),
	}
}

// FromCalendarResponse конвертирует календарь use case в HTTP response
func FromCalendarResponse(resp *resolveAvailability.CalendarResponse) *CalendarResponse {
	days := make([]CalendarDay, 0, len(resp.Days))
	for _, d := range resp.Days {
		days = append(days, CalendarDay{
			Date:      d.Date.Format(domain.DateFormat),
			Blocked:   d.Blocked,
			Past:      d.Past,
			Available: d.Available(),
		})
	}
	return &CalendarResponse{
		VenueID: resp.VenueID,
		Month:   resp.Month.Format(domain.MonthFormat),
		Days:    days,
	}
}
