package compare

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Memo caches computed results keyed on (catalog version, location, filters).
// An entry only serves the catalog snapshot it was computed from, so a new
// catalog reusing a version string never sees stale results.
// Concurrent misses for the same key and snapshot are collapsed into one computation.
// Cached results are shared between callers and must be treated as read-only.
type Memo struct {
	mu      sync.Mutex
	entries map[string]memoEntry
	order   []string // insertion order for eviction
	size    int
	ttl     time.Duration
	now     func() time.Time

	group singleflight.Group
}

type memoEntry struct {
	catalog   *Catalog
	result    *ComparisonResult
	expiresAt time.Time
}

// NewMemo creates a memo holding at most size results for ttl each.
func NewMemo(size int, ttl time.Duration) *Memo {
	return &Memo{
		entries: make(map[string]memoEntry, size),
		size:    size,
		ttl:     ttl,
		now:     time.Now,
	}
}

// MemoKey derives the memo key. It returns false when the catalog carries no
// version, since such a catalog cannot be told apart from a changed one.
func MemoKey(catalog *Catalog, location *UserLocation, filters Filters) (string, bool) {
	if catalog == nil || catalog.Version == "" {
		return "", false
	}
	payload, err := json.Marshal(struct {
		Version  string
		Location *UserLocation
		Filters  Filters
	}{catalog.Version, location, filters})
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), true
}

// Get returns the result cached for key and catalog, or runs compute once for
// all concurrent callers and caches a successful result. The boolean reports a hit.
func (m *Memo) Get(key string, catalog *Catalog, compute func() (*ComparisonResult, error)) (*ComparisonResult, bool, error) {
	if res, ok := m.lookup(key, catalog); ok {
		return res, true, nil
	}

	flight := fmt.Sprintf("%s@%p", key, catalog)
	v, err, _ := m.group.Do(flight, func() (interface{}, error) {
		if res, ok := m.lookup(key, catalog); ok {
			return res, nil
		}
		res, err := compute()
		if err != nil {
			return nil, err
		}
		m.store(key, catalog, res)
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*ComparisonResult), false, nil
}

// Len returns the number of cached results, expired ones included.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memo) lookup(key string, catalog *Catalog) (*ComparisonResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Expired entries stay until overwritten or evicted, keeping order in sync.
	e, ok := m.entries[key]
	if !ok || e.catalog != catalog || m.now().After(e.expiresAt) {
		return nil, false
	}
	return e.result, true
}

func (m *Memo) store(key string, catalog *Catalog, res *ComparisonResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	m.entries[key] = memoEntry{catalog: catalog, result: res, expiresAt: m.now().Add(m.ttl)}

	for len(m.entries) > m.size && len(m.order) > 0 {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
}
