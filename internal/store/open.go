package store

import (
	"fmt"
	"strings"
)

// Config selects a backend.
type Config struct {
	Backend string // disk | s3 | postgres | sqlite
	Dir     string // disk root
	DSN     string // postgres / sqlite
	S3      S3Config
	// Cache fronts the backend with an in-memory LRU.
	Cache bool
}

// Open builds the configured store. closeFn releases backend resources and is
// never nil.
func Open(cfg Config) (s Store, closeFn func() error, err error) {
	closeFn = func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "disk":
		if strings.TrimSpace(cfg.Dir) == "" {
			return nil, closeFn, fmt.Errorf("store: disk backend needs a directory")
		}
		s = NewDiskStore(cfg.Dir)
	case "s3":
		s3, err := NewS3Store(cfg.S3)
		if err != nil {
			return nil, closeFn, err
		}
		s = s3
	case "postgres", DialectPostgres:
		db, err := OpenSQLStore(DialectPostgres, cfg.DSN)
		if err != nil {
			return nil, closeFn, err
		}
		s, closeFn = db, db.Close
	case DialectSQLite:
		db, err := OpenSQLStore(DialectSQLite, cfg.DSN)
		if err != nil {
			return nil, closeFn, err
		}
		s, closeFn = db, db.Close
	default:
		return nil, closeFn, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
	if cfg.Cache {
		cached, err := NewCachedStore(s, DefaultCacheConfig())
		if err != nil {
			_ = closeFn()
			return nil, func() error { return nil }, err
		}
		s = cached
	}
	return s, closeFn, nil
}
