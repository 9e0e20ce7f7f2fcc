// Package cache provides the two-tier result cache: a ristretto in-memory
// tier in front of an optional PostgreSQL backup tier. Values are stored as
// JSON bytes; TTLs depend on the kind of data being cached.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog"

	"github.com/gatat123/YouTube-Bot-v7/internal/logging"
)

// Category selects the TTL for an entry. Trend data goes stale fast;
// seasonal patterns barely move.
type Category string

const (
	CategoryTrending   Category = "trending"
	CategoryStable     Category = "stable"
	CategorySeasonal   Category = "seasonal"
	CategoryCompetitor Category = "competitor"
	CategoryGeneral    Category = "general"
)

// TTLFor returns the lifetime for a category.
func TTLFor(cat Category) time.Duration {
	switch cat {
	case CategoryTrending:
		return 30 * time.Minute
	case CategoryStable:
		return 24 * time.Hour
	case CategorySeasonal:
		return 7 * 24 * time.Hour
	case CategoryCompetitor:
		return 12 * time.Hour
	default:
		return time.Hour
	}
}

// Store is the backup tier. Implementations must be safe for concurrent use.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte, category Category, expiresAt time.Time) error
	DeleteExpired(ctx context.Context) (int64, error)
	Close()
}

// Stats is the counters snapshot returned by GET /cache/stats.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
	DBSaves uint64  `json:"db_saves"`
	DBLoads uint64  `json:"db_loads"`
}

// Manager coordinates the memory tier, the optional backup store and the
// hit/miss counters.
type Manager struct {
	mem   *ristretto.Cache
	store Store
	log   zerolog.Logger

	hits    atomic.Uint64
	misses  atomic.Uint64
	dbSaves atomic.Uint64
	dbLoads atomic.Uint64
}

// NewManager builds a manager with the given memory budget. store may be nil
// for memory-only operation.
func NewManager(maxCostBytes int64, store Store) (*Manager, error) {
	mem, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &Manager{
		mem:   mem,
		store: store,
		log:   logging.Component("cache"),
	}, nil
}

// Get returns the cached bytes for key, checking memory first and falling
// back to the backup store. A store hit repopulates the memory tier with the
// general TTL.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := m.mem.Get(key); ok {
		if b, ok := v.([]byte); ok {
			m.hits.Add(1)
			return b, true
		}
	}

	if m.store != nil {
		b, ok, err := m.store.Load(ctx, key)
		if err != nil {
			m.log.Warn().Err(err).Msg("backup store load failed")
		} else if ok {
			m.hits.Add(1)
			m.dbLoads.Add(1)
			m.mem.SetWithTTL(key, b, int64(len(b)), TTLFor(CategoryGeneral))
			return b, true
		}
	}

	m.misses.Add(1)
	return nil, false
}

// Set writes the entry to both tiers with the category TTL.
func (m *Manager) Set(ctx context.Context, key string, value []byte, cat Category) {
	ttl := TTLFor(cat)
	m.mem.SetWithTTL(key, value, int64(len(value)), ttl)

	if m.store != nil {
		if err := m.store.Save(ctx, key, value, cat, time.Now().Add(ttl)); err != nil {
			m.log.Warn().Err(err).Msg("backup store save failed")
		} else {
			m.dbSaves.Add(1)
		}
	}
}

// GetObject unmarshals a cached JSON entry into out.
func (m *Manager) GetObject(ctx context.Context, key string, out any) bool {
	b, ok := m.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		m.mem.Del(key)
		return false
	}
	return true
}

// SetObject marshals v and stores it under key.
func (m *Manager) SetObject(ctx context.Context, key string, v any, cat Category) {
	b, err := json.Marshal(v)
	if err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("cache marshal failed")
		return
	}
	m.Set(ctx, key, b, cat)
}

// Stats returns a counters snapshot.
func (m *Manager) Stats() Stats {
	s := Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		DBSaves: m.dbSaves.Load(),
		DBLoads: m.dbLoads.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// Wait flushes pending memory-tier writes. Used by tests.
func (m *Manager) Wait() { m.mem.Wait() }

// Close shuts down both tiers.
func (m *Manager) Close() {
	m.mem.Close()
	if m.store != nil {
		m.store.Close()
	}
}

// Key derives a stable cache key from namespace parts.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:16])
}
