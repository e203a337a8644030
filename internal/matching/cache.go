// internal/matching/cache.go

package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// MatchCache caches ranked match results per requester. The cache is a
// soft dependency: every method is safe on a nil receiver and errors
// degrade to a miss, never to a failed request.
type MatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchCache creates a cache over the given Redis client
func NewMatchCache(client *redis.Client, ttl time.Duration) *MatchCache {
	return &MatchCache{client: client, ttl: ttl}
}

func matchKey(userID int64) string {
	return fmt.Sprintf("buddy:matches:%d", userID)
}

// Get returns the cached ranked results for the actor, if present
func (c *MatchCache) Get(ctx context.Context, userID int64) ([]*MatchResult, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, matchKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}

	var results []*MatchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false
	}
	return results, true
}

// Set stores ranked results for the actor with the cache TTL
func (c *MatchCache) Set(ctx context.Context, userID int64, results []*MatchResult) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	c.client.Set(ctx, matchKey(userID), data, c.ttl)
}

// Invalidate drops cached results for the given actors. Called when
// preferences change or a new request alters an exclusion set.
func (c *MatchCache) Invalidate(ctx context.Context, userIDs ...int64) {
	if c == nil || c.client == nil || len(userIDs) == 0 {
		return
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = matchKey(id)
	}
	c.client.Del(ctx, keys...)
}
