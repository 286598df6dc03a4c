package quote_price

import (
	"context"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

type VenueConstraintsProvider interface {
	GetVenueConstraints(ctx context.Context, venueID string) (*domain.VenueConstraints, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
