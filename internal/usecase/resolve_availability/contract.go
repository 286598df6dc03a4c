package resolve_availability

import (
	"context"
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// ReservationSource источник бронирований площадки (Holidaze API)
type ReservationSource interface {
	FetchReservations(ctx context.Context, venueID string) ([]domain.Reservation, error)
}

// RefreshRecorder получает результат каждого пересчета (метрики)
type RefreshRecorder interface {
	RecordRefresh(venueID string, blockedDays int, err error)
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

type nopRecorder struct{}

func (nopRecorder) RecordRefresh(string, int, error) {}
