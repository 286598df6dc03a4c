package create_reservation

import (
	"time"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/domain"
	submitReservation "github.com/m04kA/holidaze-booking/internal/usecase/submit_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	DateFrom string `json:"dateFrom"` // "2024-06-04"
	DateTo   string `json:"dateTo"`   // "2024-06-06"
	Guests   int    `json:"guests"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID        string `json:"id"`
	AttemptID string `json:"attemptId"`
	VenueID   string `json:"venueId"`
	DateFrom  string `json:"dateFrom"`
	DateTo    string `json:"dateTo"`
	Guests    int    `json:"guests"`
	// BlockedDates занятые дни после перезагрузки, nil если перезагрузка не удалась
	BlockedDates []string `json:"blockedDates"`
	// AvailabilityStale true, если бронирование создано, но доступность перезагрузить не удалось
	AvailabilityStale bool `json:"availabilityStale"`
}

// ToBookingRequest конвертирует HTTP запрос в доменную модель
func (r *CreateReservationRequest) ToBookingRequest(venueID string, loc *time.Location) (domain.BookingRequest, error) {
	dateRange, err := handlers.ParseDateRange(r.DateFrom, r.DateTo, loc)
	if err != nil {
		return domain.BookingRequest{}, err
	}
	return domain.BookingRequest{
		VenueID:    venueID,
		Range:      dateRange,
		GuestCount: r.Guests,
	}, nil
}

// FromResult конвертирует результат use case в HTTP response
func FromResult(res *submitReservation.Result) *ReservationResponse {
	resp := &ReservationResponse{
		ID:                res.Reservation.ID,
		AttemptID:         res.AttemptID,
		VenueID:           res.Reservation.VenueID,
		DateFrom:          res.Reservation.Range.Start().Format(domain.DateFormat),
		DateTo:            res.Reservation.Range.End().Format(domain.DateFormat),
		Guests:            res.Reservation.GuestCount,
		AvailabilityStale: res.RefreshErr != nil,
	}
	if res.Availability != nil {
		resp.BlockedDates = handlers.FormatDays(res.Availability.Blocked.Days())
	}
	return resp
}
