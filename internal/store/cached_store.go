package store

import (
	"context"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

type CacheConfig struct {
	BlobMaxEntries int
	ListMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{BlobMaxEntries: 256, ListMaxEntries: 128}
}

type MetricsSnapshot struct {
	BlobHits     uint64
	BlobMisses   uint64
	ListHits     uint64
	ListMisses   uint64
	OriginReads  uint64
	OriginWrites uint64
}

// CachedStore fronts another Store with in-memory LRU caches. Writes go
// through to the origin and refresh the cache.
type CachedStore struct {
	origin    Store
	blobCache *lru.Cache[string, []byte]
	listCache *lru.Cache[string, []string]

	blobHits, blobMisses      atomic.Uint64
	listHits, listMisses      atomic.Uint64
	originReads, originWrites atomic.Uint64
}

func NewCachedStore(origin Store, cfg CacheConfig) (*CachedStore, error) {
	def := DefaultCacheConfig()
	if cfg.BlobMaxEntries <= 0 {
		cfg.BlobMaxEntries = def.BlobMaxEntries
	}
	if cfg.ListMaxEntries <= 0 {
		cfg.ListMaxEntries = def.ListMaxEntries
	}
	blobs, err := lru.New[string, []byte](cfg.BlobMaxEntries)
	if err != nil {
		return nil, err
	}
	lists, err := lru.New[string, []string](cfg.ListMaxEntries)
	if err != nil {
		return nil, err
	}
	return &CachedStore{origin: origin, blobCache: blobs, listCache: lists}, nil
}

func (s *CachedStore) Put(ctx context.Context, runID, path string, content []byte) error {
	s.originWrites.Add(1)
	if err := s.origin.Put(ctx, runID, path, content); err != nil {
		return err
	}
	s.blobCache.Add(cacheKey(runID, path), append([]byte(nil), content...))
	s.listCache.Remove(strings.TrimSpace(runID))
	return nil
}

func (s *CachedStore) Get(ctx context.Context, runID, path string) ([]byte, error) {
	key := cacheKey(runID, path)
	if raw, ok := s.blobCache.Get(key); ok {
		s.blobHits.Add(1)
		return append([]byte(nil), raw...), nil
	}
	s.blobMisses.Add(1)
	s.originReads.Add(1)

	raw, err := s.origin.Get(ctx, runID, path)
	if err != nil {
		return nil, err
	}
	s.blobCache.Add(key, append([]byte(nil), raw...))
	return raw, nil
}

func (s *CachedStore) List(ctx context.Context, runID string) ([]string, error) {
	runID = strings.TrimSpace(runID)
	if list, ok := s.listCache.Get(runID); ok {
		s.listHits.Add(1)
		return append([]string(nil), list...), nil
	}
	s.listMisses.Add(1)
	s.originReads.Add(1)

	list, err := s.origin.List(ctx, runID)
	if err != nil {
		return nil, err
	}
	s.listCache.Add(runID, append([]string(nil), list...))
	return list, nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		BlobHits:     s.blobHits.Load(),
		BlobMisses:   s.blobMisses.Load(),
		ListHits:     s.listHits.Load(),
		ListMisses:   s.listMisses.Load(),
		OriginReads:  s.originReads.Load(),
		OriginWrites: s.originWrites.Load(),
	}
}

func cacheKey(runID, path string) string {
	return strings.TrimSpace(runID) + "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
}
