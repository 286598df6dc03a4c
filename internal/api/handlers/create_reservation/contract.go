package create_reservation

import (
	"context"

	"github.com/m04kA/holidaze-booking/internal/domain"
	submitReservation "github.com/m04kA/holidaze-booking/internal/usecase/submit_reservation"
)

type SubmitReservationUseCase interface {
	Submit(ctx context.Context, req domain.BookingRequest, constraints domain.VenueConstraints) (*submitReservation.Result, error)
	Retry(ctx context.Context, venueID string, constraints domain.VenueConstraints) (*submitReservation.Result, error)
}

type VenueConstraintsProvider interface {
	GetVenueConstraints(ctx context.Context, venueID string) (*domain.VenueConstraints, error)
	Invalidate(ctx context.Context, venueID string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
