package validate_booking

import (
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// Input входные данные проверки бронирования
type Input struct {
	Request     domain.BookingRequest   // Кандидат на бронирование
	Blocked     domain.BlockedDateSet   // Занятые дни площадки
	Constraints domain.VenueConstraints // Ограничения площадки
}

// Report результат полной проверки для подсказок в UI.
// В отличие от Validate не останавливается на первой ошибке.
type Report struct {
	Unauthenticated bool
	IncompleteRange bool
	ConflictingDays []time.Time
	GuestCountValid bool
	Errors          []error // В порядке проверок
}

// Valid returns true if no check failed
func (r Report) Valid() bool {
	return len(r.Errors) == 0
}

// First returns the error Validate would have returned, nil if valid
func (r Report) First() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}
