package list_attempts

import (
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// AttemptResponse запись журнала попыток
type AttemptResponse struct {
	ID            string    `json:"id"`
	VenueID       string    `json:"venueId"`
	DateFrom      string    `json:"dateFrom,omitempty"`
	DateTo        string    `json:"dateTo,omitempty"`
	Guests        int       `json:"guests"`
	Outcome       string    `json:"outcome"`
	Error         *string   `json:"error,omitempty"`
	ReservationID *string   `json:"reservationId,omitempty"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
}

// AttemptsResponse попытки по площадке
type AttemptsResponse struct {
	VenueID  string            `json:"venueId"`
	Attempts []AttemptResponse `json:"attempts"`
}

func FromDomain(a domain.SubmissionAttempt) AttemptResponse {
	resp := AttemptResponse{
		ID:            a.ID,
		VenueID:       a.VenueID,
		Guests:        a.GuestCount,
		Outcome:       string(a.Outcome),
		Error:         a.ErrorMessage,
		ReservationID: a.ReservationID,
		StartedAt:     a.StartedAt,
		FinishedAt:    a.FinishedAt,
	}
	if start := a.Range.Start(); !start.IsZero() {
		resp.DateFrom = start.Format(domain.DateFormat)
	}
	if end := a.Range.End(); !end.IsZero() {
		resp.DateTo = end.Format(domain.DateFormat)
	}
	return resp
}
