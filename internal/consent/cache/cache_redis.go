package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"privacygate/internal/consent/models"
	id "privacygate/pkg/domain"
	"privacygate/pkg/platform/circuit"
)

// Redis is a Cache backed by a shared redis instance, for multi-replica
// deployments where each gateway replica must see invalidations from the
// others.
type Redis struct {
	client  redis.Cmdable
	ttl     time.Duration
	breaker *circuit.Breaker
}

// NewRedis constructs a redis-backed consent cache. A circuit breaker fails
// reads fast while redis is down instead of paying the dial timeout on every
// consent check; invalidations still go through and double as recovery probes.
func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{
		client:  client,
		ttl:     DefaultTTL,
		breaker: circuit.New("consent_cache"),
	}
}

func cacheKey(userID id.UserID) string {
	return "consent:" + userID.String()
}

func (r *Redis) Get(ctx context.Context, userID id.UserID, scope models.Scope) (models.ConsentStatus, bool) {
	if r.breaker.IsOpen() {
		return models.ConsentStatus{}, false
	}
	raw, err := r.client.HGet(ctx, cacheKey(userID), string(scope)).Result()
	if err != nil {
		// redis.Nil is a healthy miss; anything else counts against the
		// breaker. Both degrade to a store read.
		if errors.Is(err, redis.Nil) {
			r.breaker.RecordSuccess()
		} else {
			r.breaker.RecordFailure()
		}
		return models.ConsentStatus{}, false
	}
	r.breaker.RecordSuccess()
	var status models.ConsentStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return models.ConsentStatus{}, false
	}
	return status, true
}

func (r *Redis) Set(ctx context.Context, userID id.UserID, scope models.Scope, status models.ConsentStatus) {
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if r.breaker.IsOpen() {
		return
	}
	key := cacheKey(userID)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, string(scope), raw)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.breaker.RecordFailure()
		return
	}
	r.breaker.RecordSuccess()
}

// InvalidateUser always hits redis, open breaker or not: dropping an
// invalidation risks serving stale consent, and a successful delete is the
// signal that closes the breaker again.
func (r *Redis) InvalidateUser(ctx context.Context, userID id.UserID) error {
	if err := r.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		r.breaker.RecordFailure()
		return err
	}
	r.breaker.RecordSuccess()
	return nil
}
