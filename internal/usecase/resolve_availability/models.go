package resolve_availability

import (
	"time"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// Request модель запроса на пересчет доступности
type Request struct {
	VenueID string // ID площадки
}

// Response результат пересчета доступности
type Response struct {
	VenueID      string                // ID площадки
	Reservations []domain.Reservation  // Бронирования, из которых построен набор
	Blocked      domain.BlockedDateSet // Занятые дни
	RefreshedAt  time.Time             // Время пересчета
}

// CalendarRequest модель запроса календаря площадки на месяц
type CalendarRequest struct {
	VenueID string    // ID площадки
	Month   time.Time // Любой день нужного месяца
}

// CalendarResponse календарь площадки на месяц
type CalendarResponse struct {
	VenueID string
	Month   time.Time // Первый день месяца
	Days    []CalendarDay
}

// CalendarDay состояние одного дня в календаре
type CalendarDay struct {
	Date    time.Time
	Blocked bool // Занят существующим бронированием
	Past    bool // День уже прошел, выбрать его нельзя
}

// Available returns true if the day can be selected
func (d CalendarDay) Available() bool {
	return !d.Blocked && !d.Past
}
