package venue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/holidaze-booking/internal/domain"
)

const (
	defaultTTL    = 10 * time.Minute
	defaultPrefix = "holidaze:venue"
)

// Cache read-through кеш ограничений площадки.
// Бронирования здесь не кешируются: доступность всегда строится по свежему ответу API.
// Если Redis недоступен, запросы идут напрямую в источник.
type Cache struct {
	client RedisClient
	source ConstraintsSource
	ttl    time.Duration
	prefix string
	log    Logger
}

// Option настраивает кеш
type Option func(*Cache)

// WithTTL задает время жизни записи
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPrefix задает префикс ключей
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewCache создает кеш поверх источника. client может быть nil - тогда кеш выключен.
func NewCache(client RedisClient, source ConstraintsSource, log Logger, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		source: source,
		ttl:    defaultTTL,
		prefix: defaultPrefix,
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetVenueConstraints возвращает ограничения площадки из кеша или из источника
func (c *Cache) GetVenueConstraints(ctx context.Context, venueID string) (*domain.VenueConstraints, error) {
	if cached, ok := c.get(ctx, venueID); ok {
		return cached, nil
	}

	constraints, err := c.source.GetVenueConstraints(ctx, venueID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, *constraints)
	return constraints, nil
}

// Invalidate удаляет запись площадки
func (c *Cache) Invalidate(ctx context.Context, venueID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(venueID)).Err(); err != nil {
		c.log.Warn("VenueCache: failed to invalidate venue=%s: %v", venueID, err)
	}
}

func (c *Cache) get(ctx context.Context, venueID string) (*domain.VenueConstraints, bool) {
	if c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, c.key(venueID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("VenueCache: redis get failed for venue=%s, falling back to API: %v", venueID, err)
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.VenueID != venueID || e.MaxGuests < domain.MinGuests {
		c.log.Warn("VenueCache: dropping corrupted entry for venue=%s", venueID)
		return nil, false
	}

	constraints := e.toDomain()
	return &constraints, true
}

func (c *Cache) set(ctx context.Context, constraints domain.VenueConstraints) {
	if c.client == nil {
		return
	}

	raw, err := json.Marshal(newEntry(constraints))
	if err != nil {
		c.log.Error("VenueCache: failed to encode venue=%s: %v", constraints.VenueID, err)
		return
	}
	if err := c.client.Set(ctx, c.key(constraints.VenueID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("VenueCache: redis set failed for venue=%s: %v", constraints.VenueID, err)
	}
}

func (c *Cache) key(venueID string) string {
	return c.prefix + ":" + venueID
}
