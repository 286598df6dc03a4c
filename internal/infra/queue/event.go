package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// ReservationCreatedQueue очередь событий о созданных бронированиях
const ReservationCreatedQueue = "holidaze.reservation.created"

// ReservationCreatedEvent событие о созданном бронировании
type ReservationCreatedEvent struct {
	EventID       string    `json:"eventId"`
	OccurredAt    time.Time `json:"occurredAt"`
	ReservationID string    `json:"reservationId"`
	VenueID       string    `json:"venueId"`
	DateFrom      string    `json:"dateFrom"`
	DateTo        string    `json:"dateTo"`
	Guests        int       `json:"guests"`
}

// NewReservationCreatedEvent строит событие по созданному бронированию
func NewReservationCreatedEvent(r domain.Reservation, now time.Time) ReservationCreatedEvent {
	return ReservationCreatedEvent{
		EventID:       uuid.NewString(),
		OccurredAt:    now.UTC(),
		ReservationID: r.ID,
		VenueID:       r.VenueID,
		DateFrom:      r.Range.Start().Format(domain.DateFormat),
		DateTo:        r.Range.End().Format(domain.DateFormat),
		Guests:        r.GuestCount,
	}
}
