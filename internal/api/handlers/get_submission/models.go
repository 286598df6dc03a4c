package get_submission

import "github.com/m04kA/holidaze-booking/internal/domain"

// SubmissionResponse состояние отправки по площадке
type SubmissionResponse struct {
	VenueID   string          `json:"venueId"`
	State     string          `json:"state"`
	Pending   *PendingRequest `json:"pending,omitempty"`
	LastError string          `json:"lastError,omitempty"`
}

// PendingRequest сохраненный запрос на бронирование
type PendingRequest struct {
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
	Guests   int    `json:"guests"`
}

func newPendingRequest(req domain.BookingRequest) *PendingRequest {
	p := &PendingRequest{Guests: req.GuestCount}
	if start := req.Range.Start(); !start.IsZero() {
		p.DateFrom = start.Format(domain.DateFormat)
	}
	if end := req.Range.End(); !end.IsZero() {
		p.DateTo = end.Format(domain.DateFormat)
	}
	return p
}
