package submit_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_reservation: invalid input data")

	// ErrSubmissionInProgress возвращается, когда для площадки уже выполняется отправка
	ErrSubmissionInProgress = errors.New("submit_reservation: submission already in progress")

	// ErrRejected возвращается, когда бронирование не прошло локальную проверку.
	// Оборачивает конкретную ошибку validate_booking (ErrUnauthenticated, ErrDateConflict, ...).
	ErrRejected = errors.New("submit_reservation: rejected by validation")

	// ErrNetwork возвращается, когда API недоступен; отправку можно повторить
	ErrNetwork = errors.New("submit_reservation: network error")

	// ErrServerRejected возвращается, когда API отказал в создании бронирования
	ErrServerRejected = errors.New("submit_reservation: rejected by server")

	// ErrUnauthorized возвращается вместе с ErrServerRejected, когда API не принял токен.
	// Вызывающий слой должен разлогинить пользователя.
	ErrUnauthorized = errors.New("submit_reservation: unauthorized")

	// ErrConflict возвращается вместе с ErrServerRejected, когда даты заняли параллельно.
	// Доступность к этому моменту уже перезагружена.
	ErrConflict = errors.New("submit_reservation: dates were booked concurrently")

	// ErrNothingToRetry возвращается, когда для площадки нет сохраненного запроса
	ErrNothingToRetry = errors.New("submit_reservation: nothing to retry")
)
