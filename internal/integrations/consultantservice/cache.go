package consultantservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/consultation-booking/internal/domain"
)

const cacheKeyPrefix = "consultant:"

// CachedClient кэширует ответы справочника в Redis
// Ошибки Redis не ломают запрос: обращение уходит напрямую в справочник
type CachedClient struct {
	next  Directory
	redis *redis.Client
	ttl   time.Duration
	log   Logger
}

func NewCachedClient(next Directory, rdb *redis.Client, ttl time.Duration, log Logger) *CachedClient {
	return &CachedClient{next: next, redis: rdb, ttl: ttl, log: log}
}

func (c *CachedClient) GetConsultant(ctx context.Context, id string) (*domain.Consultant, error) {
	key := cacheKeyPrefix + id

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Consultant
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached.toDomain(), nil
		}
		c.log.Warn("ConsultantCache: corrupted entry for consultant_id=%s, refetching", id)
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("ConsultantCache: redis get failed for consultant_id=%s: %v", id, err)
	}

	consultant, err := c.next.GetConsultant(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fromDomain(consultant))
	if err != nil {
		return consultant, nil
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("ConsultantCache: redis set failed for consultant_id=%s: %v", id, err)
	}

	return consultant, nil
}
