package kv

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// warmConcurrency bounds the parallel fetches issued by Warm.
const warmConcurrency = 8

// Warm bulk-loads the given keys from the backend, fetching in parallel.
//
// It returns the values of the keys that were present; absent keys are
// simply missing from the result. The core containers stay single-threaded;
// Warm is a boundary helper to pre-populate their caches before a call when
// the backend is remote and per-key latency dominates.
func Warm(ctx context.Context, b Backend, keys []Key) (map[Key][]byte, error) {
	found := make(map[Key][]byte, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			value, ok, err := b.Load(ctx, key)
			if err != nil || !ok {
				return err
			}
			mu.Lock()
			found[key] = value
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}
