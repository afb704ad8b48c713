package nbase

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultRegistryCapacity is the number of charsets a registry holds before
// it is flushed.
const DefaultRegistryCapacity = 100

// Registry validates charsets and caches them by their raw source string, so
// that repeated lookups return the same *Charset. When an insert would exceed
// the capacity the whole cache is cleared first.
//
// A Registry is safe for concurrent use. Concurrent misses on the same key
// validate the charset once.
type Registry struct {
	mu       sync.RWMutex
	cache    map[string]*Charset
	capacity int
	group    singleflight.Group
	logger   zerolog.Logger

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// RegistryStats is a snapshot of registry counters.
type RegistryStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCapacity sets the cache capacity. Values below 1 are ignored.
func WithCapacity(n int) RegistryOption {
	return func(r *Registry) {
		if n >= 1 {
			r.capacity = n
		}
	}
}

// WithRegistryLogger sets the logger used for cache events.
func WithRegistryLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		cache:    make(map[string]*Charset),
		capacity: DefaultRegistryCapacity,
		logger:   zerolog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate returns the charset for symbols, building and caching it on first
// use. Invalid alphabets are reported with ErrInvalidCharset and are never
// cached.
func (r *Registry) Validate(symbols string) (*Charset, error) {
	r.mu.RLock()
	c, ok := r.cache[symbols]
	r.mu.RUnlock()
	if ok {
		r.hits.Add(1)
		return c, nil
	}
	r.misses.Add(1)

	v, err, _ := r.group.Do(symbols, func() (any, error) {
		r.mu.RLock()
		c, ok := r.cache[symbols]
		r.mu.RUnlock()
		if ok {
			return c, nil
		}
		c, err := newCharset(symbols)
		if err != nil {
			return nil, err
		}
		r.store(symbols, c)
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Charset), nil
}

// ForBase is Validate plus a check that the charset is long enough for base.
func (r *Registry) ForBase(symbols string, base int) (*Charset, error) {
	c, err := r.Validate(symbols)
	if err != nil {
		return nil, err
	}
	if c.Len() < base {
		return nil, newError("charset", ErrInvalidCharset, "charset length must be >= base, but %d < %d", c.Len(), base)
	}
	return c, nil
}

func (r *Registry) store(key string, c *Charset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cache) >= r.capacity {
		r.logger.Debug().Int("size", len(r.cache)).Msg("charset cache full, flushing")
		r.cache = make(map[string]*Charset, r.capacity)
		r.evictions.Add(1)
	}
	r.cache[key] = c
}

// Len returns the number of cached charsets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Stats returns the current counters.
func (r *Registry) Stats() RegistryStats {
	return RegistryStats{
		Hits:      r.hits.Load(),
		Misses:    r.misses.Load(),
		Evictions: r.evictions.Load(),
		Size:      r.Len(),
	}
}
