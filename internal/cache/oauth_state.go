package cache

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// ErrCacheUnavailable is returned by operations that require Redis when it is not configured.
var ErrCacheUnavailable = errors.New("cache unavailable")

// SaveOAuthState records a pending OAuth state value.
func SaveOAuthState(ctx context.Context, state string) error {
	if client == nil {
		return ErrCacheUnavailable
	}
	return client.Set(ctx, OAuthStateKey(state), "1", OAuthStateTTL).Err()
}

// ConsumeOAuthState deletes a pending state value and reports whether it existed.
// Each state can be consumed at most once.
func ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	if client == nil {
		return false, ErrCacheUnavailable
	}
	_, err := client.GetDel(ctx, OAuthStateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
