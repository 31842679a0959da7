package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "profile:v1:"

// Profile is the cached view of a promoter used to resolve sessions without
// hitting the database on every request.
type Profile struct {
	ID    string `json:"id"`
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ProfileCache is a TTL-bounded Redis cache for promoter profiles.
// Entries expire on their own; Invalidate is called on logout and on role
// change so stale role information never outlives either event.
type ProfileCache struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewProfileCache builds a profile cache with the given entry TTL.
func NewProfileCache(cache *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileCache{cache: cache, ttl: ttl}
}

// Get returns the cached profile and whether it was present.
func (c *ProfileCache) Get(ctx context.Context, id string) (Profile, bool, error) {
	if c == nil || c.cache == nil {
		return Profile{}, false, nil
	}
	raw, err := c.cache.Get(ctx, profileKeyPrefix+id).Result()
	if err == redis.Nil {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// Unreadable entry: drop it and treat as a miss.
		c.cache.Del(ctx, profileKeyPrefix+id)
		return Profile{}, false, nil
	}
	return p, true, nil
}

// Put stores the profile for the configured TTL.
func (c *ProfileCache) Put(ctx context.Context, p Profile) error {
	if c == nil || c.cache == nil {
		return nil
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, profileKeyPrefix+p.ID, payload, c.ttl).Err()
}

// Invalidate removes the cached profile. Called on logout and role change.
func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Del(ctx, profileKeyPrefix+id).Err()
}
