package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultCacheTTL = 5 * time.Minute

// Loader fetches and normalizes the catalog, caching successful snapshots for a TTL.
// Failures are never cached and never retried.
type Loader struct {
	source    Source
	assetRoot string
	ttl       time.Duration
	logger    *zap.Logger
	group     singleflight.Group

	mu      sync.RWMutex
	cached  Snapshot
	expires time.Time
	now     func() time.Time
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithCacheTTL sets how long a loaded snapshot is reused. Zero disables caching.
func WithCacheTTL(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d < 0 {
			d = 0
		}
		l.ttl = d
	}
}

// WithLogger attaches a logger for ingestion warnings.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader builds a loader over source. Media URLs are rooted at assetRoot.
func NewLoader(source Source, assetRoot string, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:    source,
		assetRoot: assetRoot,
		ttl:       defaultCacheTTL,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the current snapshot. On failure it returns an empty snapshot and an
// error wrapping ErrUnavailable; callers render their unavailable state.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	if snap, ok := l.fromCache(); ok {
		return snap, nil
	}
	if l.source == nil {
		return Snapshot{}, fmt.Errorf("%w: no source configured", ErrUnavailable)
	}

	// concurrent misses share one fetch
	v, err, _ := l.group.Do("catalog", func() (any, error) {
		return l.fetch(ctx)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

func (l *Loader) fetch(ctx context.Context) (Snapshot, error) {
	payload, err := l.source.Fetch(ctx)
	if err != nil {
		l.logger.Warn("catalog fetch failed", zap.String("source", l.source.String()), zap.Error(err))
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	raw, err := Decode(payload)
	if err != nil {
		l.logger.Warn("catalog decode failed", zap.String("source", l.source.String()), zap.Error(err))
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	snap, report := Normalize(raw, l.assetRoot)
	if !report.Clean() {
		for _, r := range report.Rejected {
			l.logger.Warn("catalog item rejected",
				zap.Int("index", r.Index),
				zap.String("name", r.Name),
				zap.String("reason", r.Reason))
		}
		if len(report.UnknownCategories) > 0 {
			l.logger.Warn("catalog items with unknown category", zap.Strings("categories", report.UnknownCategories))
		}
	}
	l.store(snap)
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cached = Snapshot{}
	l.expires = time.Time{}
	l.mu.Unlock()
}

func (l *Loader) fromCache() (Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.expires.IsZero() || l.now().After(l.expires) {
		return Snapshot{}, false
	}
	return l.cached, true
}

func (l *Loader) store(snap Snapshot) {
	if l.ttl <= 0 {
		return
	}
	l.mu.Lock()
	l.cached = snap
	l.expires = l.now().Add(l.ttl)
	l.mu.Unlock()
}
