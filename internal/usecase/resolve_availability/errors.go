package resolve_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resolve_availability: invalid input data")

	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = errors.New("resolve_availability: venue not found")

	// ErrNetwork возвращается, когда API недоступен; запрос можно повторить позже
	ErrNetwork = errors.New("resolve_availability: network error")

	// ErrServer возвращается, когда API ответил ошибкой или некорректными данными
	ErrServer = errors.New("resolve_availability: server error")
)
