package get_availability

import (
	"context"

	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
)

type ResolveAvailabilityUseCase interface {
	Execute(ctx context.Context, req *resolveAvailability.Request) (*resolveAvailability.Response, error)
	Calendar(ctx context.Context, req *resolveAvailability.CalendarRequest) (*resolveAvailability.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
