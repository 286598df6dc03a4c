package submit_reservation

import (
	"context"
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
	validateBooking "github.com/m04kA/holidaze-booking/internal/usecase/validate_booking"
)

// AvailabilityResolver пересчитывает занятые дни по свежему списку бронирований
type AvailabilityResolver interface {
	Execute(ctx context.Context, req *resolveAvailability.Request) (*resolveAvailability.Response, error)
}

// BookingValidator проверяет кандидата на бронирование
type BookingValidator interface {
	Authenticate(ctx context.Context) (domain.Credential, error)
	Validate(ctx context.Context, in validateBooking.Input) (*domain.BookingRequest, error)
}

// ReservationGateway endpoint создания бронирования (Holidaze API)
type ReservationGateway interface {
	SubmitReservation(ctx context.Context, req domain.BookingRequest, cred domain.Credential) (*domain.Reservation, error)
}

// AttemptJournal журнал попыток бронирования
type AttemptJournal interface {
	Record(ctx context.Context, attempt *domain.SubmissionAttempt) error
}

// EventPublisher публикует событие о созданном бронировании
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, reservation domain.Reservation) error
}

// OutcomeRecorder учитывает результат попытки (метрики)
type OutcomeRecorder interface {
	RecordSubmission(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, *domain.SubmissionAttempt) error { return nil }

type nopPublisher struct{}

func (nopPublisher) PublishReservationCreated(context.Context, domain.Reservation) error { return nil }

type nopRecorder struct{}

func (nopRecorder) RecordSubmission(string) {}
