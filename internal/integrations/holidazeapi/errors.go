package holidazeapi

import "errors"

var (
	// ErrNetwork возвращается, когда запрос не дошел до API или ответ не был получен (timeout, DNS, обрыв)
	ErrNetwork = errors.New("holidazeapi: network error")

	// ErrUnauthorized возвращается на 401/403 - токен отсутствует, истек или отозван
	ErrUnauthorized = errors.New("holidazeapi: unauthorized")

	// ErrConflict возвращается на 409 - даты уже заняты другим бронированием
	ErrConflict = errors.New("holidazeapi: booking conflict")

	// ErrVenueNotFound возвращается на 404 при запросе площадки
	ErrVenueNotFound = errors.New("holidazeapi: venue not found")

	// ErrRejected возвращается, когда API отклонил запрос с 4xx (кроме 401/403/404/409)
	ErrRejected = errors.New("holidazeapi: request rejected")

	// ErrServer возвращается на 5xx и прочие неожиданные статусы
	ErrServer = errors.New("holidazeapi: server error")

	// ErrInvalidResponse возвращается, когда тело ответа не удалось разобрать или оно не прошло валидацию
	ErrInvalidResponse = errors.New("holidazeapi: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("holidazeapi: internal error")
)
