package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrFetch implements the cache-aside pattern over a Service. It looks
// up key in the store; on a hit the cached JSON is decoded into T and
// returned with fromCache=true. On a miss the fetch function is invoked,
// its result stored under key with the given TTL, and returned with
// fromCache=false. A nil fetch turns a miss into a zero value.
//
// Store errors are never propagated: a failing cache (connection error,
// corrupted entry, failed write) degrades to a direct fetch. Only errors
// from fetch itself reach the caller.
//
// Concurrent calls for the same key under miss conditions each invoke
// fetch independently; the last write wins. Both values come from the
// same persisted state, so the race is wasteful but benign.
func GetOrFetch[T any](ctx context.Context, store Service, key string, ttl time.Duration, fetch func() (T, error)) (T, bool, error) {
	var zero T

	if store != nil {
		if raw, err := store.Get(ctx, key); err == nil {
			var cached T
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, true, nil
			}
			// undecodable entry is treated as a miss
		}
	}

	if fetch == nil {
		return zero, false, nil
	}

	value, err := fetch()
	if err != nil {
		return zero, false, err
	}

	if store != nil {
		if raw, err := json.Marshal(value); err == nil {
			// a failed cache write must not fail the request
			_ = store.Set(ctx, key, string(raw), ttl)
		}
	}

	return value, false, nil
}
