package submit_reservation

import (
	"github.com/m04kA/holidaze-booking/internal/domain"
	resolveAvailability "github.com/m04kA/holidaze-booking/internal/usecase/resolve_availability"
)

// State состояние отправки бронирования для площадки
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateRejected   State = "rejected"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Result результат успешной отправки
type Result struct {
	AttemptID    string
	Reservation  domain.Reservation
	Availability *resolveAvailability.Response // nil, если перезагрузка не удалась
	RefreshErr   error                         // ошибка перезагрузки доступности после успеха
}

// sessionKey отправки разных пользователей на одну площадку не пересекаются
type sessionKey struct {
	venueID string
	owner   string
}

// session состояние отправки пользователя по одной площадке
type session struct {
	state    State
	inFlight bool
	pending  *domain.BookingRequest
	lastErr  error
}
