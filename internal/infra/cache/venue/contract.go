package venue

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

// RedisClient подмножество методов *redis.Client, используемых кешем
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ConstraintsSource источник ограничений площадки (Holidaze API)
type ConstraintsSource interface {
	GetVenueConstraints(ctx context.Context, venueID string) (*domain.VenueConstraints, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
