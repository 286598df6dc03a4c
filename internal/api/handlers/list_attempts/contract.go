package list_attempts

import (
	"context"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

type AttemptJournal interface {
	GetByID(ctx context.Context, id string) (*domain.SubmissionAttempt, error)
	ListByVenue(ctx context.Context, filter domain.AttemptFilter) ([]domain.SubmissionAttempt, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
