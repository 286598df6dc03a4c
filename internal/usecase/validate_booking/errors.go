package validate_booking

import "errors"

var (
	// ErrUnauthenticated возвращается, когда access token отсутствует или истек
	ErrUnauthenticated = errors.New("validate_booking: unauthenticated")

	// ErrIncompleteRange возвращается, когда не выбрана дата заезда или выезда
	ErrIncompleteRange = errors.New("validate_booking: incomplete date range")

	// ErrDateConflict возвращается, когда выбранные даты пересекаются с существующим бронированием
	ErrDateConflict = errors.New("validate_booking: dates conflict with an existing reservation")

	// ErrGuestCountInvalid возвращается, когда количество гостей вне диапазона 1..maxGuests
	ErrGuestCountInvalid = errors.New("validate_booking: invalid guest count")
)
