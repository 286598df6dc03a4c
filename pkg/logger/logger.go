package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger printf-style логгер поверх logrus.
// Пишет в stdout и, если указан файл, дополнительно в файл в формате JSON.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// New создает логгер. file может быть пустым - тогда пишем только в stdout.
// level: debug, info, warn, error
func New(file string, level string) (*Logger, error) {
	base := logrus.New()

	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	base.SetLevel(lvl)

	var out *os.File
	if file != "" {
		out, err = os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: failed to open log file %s: %w", file, err)
		}
		base.SetOutput(io.MultiWriter(os.Stdout, out))
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetOutput(os.Stdout)
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &Logger{entry: logrus.NewEntry(base), file: out}, nil
}

// NewWithWriter создает логгер, пишущий в w (используется в тестах)
func NewWithWriter(w io.Writer, level string) (*Logger, error) {
	base := logrus.New()
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	base.SetLevel(lvl)
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return &Logger{entry: logrus.NewEntry(base)}, nil
}

// Nop логгер, который ничего не пишет
func Nop() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(base)}
}

// With возвращает логгер с дополнительным полем
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value), file: l.file}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.entry.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.entry.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.entry.Errorf(format, v...) }

// Close закрывает файл логов, если он был открыт
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func parseLevel(level string) (logrus.Level, error) {
	if strings.TrimSpace(level) == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return 0, fmt.Errorf("logger: unknown level %q", level)
	}
	return lvl, nil
}
