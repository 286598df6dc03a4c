package get_submission

import (
	"github.com/m04kA/holidaze-booking/internal/domain"
	submitReservation "github.com/m04kA/holidaze-booking/internal/usecase/submit_reservation"
)

type SubmissionStateReader interface {
	State(venueID, owner string) submitReservation.State
	Pending(venueID, owner string) (domain.BookingRequest, bool)
	LastError(venueID, owner string) error
	Acknowledge(venueID, owner string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
