package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"suiquiz/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const quotaKeyPrefix = "quota:"

// redisQuotaStore keeps quota records in Redis so quota history survives
// process restarts. Keys expire shortly after their daily window closes,
// which keeps the keyspace bounded without any sweeper.
type redisQuotaStore struct {
	rdb *redis.Client
}

func NewRedisQuotaStore(rdb *redis.Client) QuotaStore {
	return &redisQuotaStore{rdb: rdb}
}

func (s *redisQuotaStore) Get(ctx context.Context, accountID string) (*model.QuotaRecord, error) {
	val, err := s.rdb.Get(ctx, quotaKeyPrefix+accountID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redisQuotaStore.Get: %w", err)
	}
	var rec model.QuotaRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("redisQuotaStore.Get unmarshal: %w", err)
	}
	return &rec, nil
}

func (s *redisQuotaStore) Put(ctx context.Context, record *model.QuotaRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("redisQuotaStore.Put marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, quotaKeyPrefix+record.AccountID, payload, ttlForWindow(record.WindowDate)).Err(); err != nil {
		return fmt.Errorf("redisQuotaStore.Put: %w", err)
	}
	return nil
}

// ttlForWindow expires the key an hour after the record's UTC day ends.
// The grace hour covers clock skew between service instances; the rate gate
// ignores stale records either way.
func ttlForWindow(windowDate string) time.Duration {
	day, err := time.ParseInLocation("2006-01-02", windowDate, time.UTC)
	if err != nil {
		return 24 * time.Hour
	}
	expiry := day.Add(25 * time.Hour)
	ttl := time.Until(expiry)
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return ttl
}
