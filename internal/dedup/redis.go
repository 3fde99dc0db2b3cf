package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/wb-go/wbf/retry"
)

// markerTTL keeps claimed markers around long enough to cover clock drift
// and restarts without accumulating forever.
const markerTTL = 48 * time.Hour

// markerSetter is the slice of the redis client the store needs.
type markerSetter interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Redis claims firing markers with SETNX so they survive process restarts
// and are shared if several schedulers ever point at one database.
type Redis struct {
	client   markerSetter
	strategy retry.Strategy
}

// NewRedis wraps a redis client as a marker store.
func NewRedis(client markerSetter, strategy retry.Strategy) *Redis {
	return &Redis{client: client, strategy: strategy}
}

// FirstFiring claims the marker key atomically. SETNX answers true only for
// the first claimant; an error after retries means the claim is unknown and
// the caller should skip this tick rather than risk a duplicate.
func (r *Redis) FirstFiring(ctx context.Context, reminderID, day string) (bool, error) {
	key := fmt.Sprintf("reminderd:fired:%s:%s", reminderID, day)

	var first bool
	err := retry.Do(func() error {
		claimed, err := r.client.SetNX(ctx, key, 1, markerTTL).Result()
		if err != nil {
			return err
		}
		first = claimed
		return nil
	}, r.strategy)
	if err != nil {
		return false, fmt.Errorf("claim firing marker: %w", err)
	}

	return first, nil
}
