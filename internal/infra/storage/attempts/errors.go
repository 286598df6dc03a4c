package attempts

import "errors"

var (
	// ErrAttemptNotFound возвращается, когда попытка не найдена
	ErrAttemptNotFound = errors.New("attempts.repository: attempt not found")

	// ErrInvalidAttempt возвращается при попытке сохранить попытку без id или площадки
	ErrInvalidAttempt = errors.New("attempts.repository: invalid attempt")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("attempts.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("attempts.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("attempts.repository: failed to scan row")
)
