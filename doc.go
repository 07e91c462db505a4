// Package cellar provides lazily-cached typed storage values over a flat
// key-value backend with 256-bit keys.
//
// Every value (cell, pack, vector, hash map, heap) caches reads, buffers
// writes, and talks to the backend only on first load and on Flush. The
// backend can be in-memory, compressed, rate limited, or remote (S3, MinIO,
// DynamoDB); see the kv package and its subpackages.
//
// Basic usage:
//
//	backend := kv.NewMemoryBackend()
//	store := cellar.Open(backend)
//
//	counter := cellar.NewCell[uint64](store)
//	counter.Set(1)
//
//	names := cellar.NewHashMap[string, string](store)
//	if _, err := names.Insert(ctx, "a", "alpha"); err != nil {
//		return err
//	}
//
//	if err := store.Flush(ctx); err != nil {
//		return err
//	}
package cellar
