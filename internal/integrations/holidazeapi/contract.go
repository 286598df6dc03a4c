package holidazeapi

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Observer получает длительность каждого запроса к API (метрики)
type Observer interface {
	ObserveBackend(operation string, started time.Time, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveBackend(string, time.Time, error) {}
