// Package thresholds resolves the active income walls for a year from a
// tiered source chain: the persisted store, then environment-supplied
// overrides, then compiled-in constants. The last tier always answers, so
// resolution never fails.
package thresholds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/rgehrsitz/fuyou/internal/domain"
)

const (
	// DefaultCacheTTL is how long a store-backed resolution is served from cache
	DefaultCacheTTL = 5 * time.Minute

	// fallbackTTLFactor shortens the life of fallback resolutions so the
	// store is retried sooner once it recovers
	fallbackTTLFactor = 0.2
)

// ErrReadOnlyStore is returned by administrative calls when the store cannot write
var ErrReadOnlyStore = errors.New("threshold store does not support updates")

// Store is the persisted source of thresholds. An empty map and an error
// are treated identically by the registry.
type Store interface {
	FetchActiveThresholds(ctx context.Context, year int) (domain.ThresholdMap, error)
}

// AdminStore is a Store that also accepts administrative writes
type AdminStore interface {
	Store
	UpsertThreshold(ctx context.Context, year int, t domain.Threshold) error
	ActivateThresholds(ctx context.Context, year int, keys []domain.ThresholdKey) (int, error)
}

// Health reports which tier served the last resolution
type Health struct {
	IsHealthy      bool      `json:"isHealthy" yaml:"is_healthy"`
	Resolved       bool      `json:"resolved" yaml:"resolved"`
	Source         Source    `json:"source" yaml:"source"`
	ThresholdCount int       `json:"thresholdCount" yaml:"threshold_count"`
	Year           int       `json:"year,omitempty" yaml:"year,omitempty"`
	ResolvedAt     time.Time `json:"resolvedAt,omitempty" yaml:"resolved_at,omitempty"`
	LastError      string    `json:"lastError,omitempty" yaml:"last_error,omitempty"`
}

// Registry resolves and caches the active threshold map per year
type Registry struct {
	store       Store
	envFallback domain.ThresholdMap
	cache       *Cache
	ttl         time.Duration
	now         func() time.Time
	group       singleflight.Group
	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer

	healthMu sync.RWMutex
	health   Health
}

// Option configures the Registry
type Option func(*Registry)

// WithStore sets the persisted tier
func WithStore(store Store) Option {
	return func(r *Registry) {
		r.store = store
	}
}

// WithEnvFallback sets the tier 2 override values
func WithEnvFallback(m domain.ThresholdMap) Option {
	return func(r *Registry) {
		r.envFallback = m.Clone()
	}
}

// WithCacheTTL sets the TTL for store-backed resolutions
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.ttl = ttl
	}
}

// WithNow sets the clock used for TTL bookkeeping
func WithNow(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithTracer sets the OpenTelemetry tracer
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = t
	}
}

// NewRegistry creates a registry. Without WithStore only the fallback tiers are used.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		ttl: DefaultCacheTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.metrics == nil {
		r.metrics = NewMetrics(nil)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer("github.com/rgehrsitz/fuyou/internal/thresholds")
	}
	r.cache = NewCache(r.now)
	return r
}

type resolution struct {
	thresholds domain.ThresholdMap
	source     Source
}

// ActiveThresholds returns the winning threshold map for year. It never
// fails; the returned map is the caller's to keep.
func (r *Registry) ActiveThresholds(ctx context.Context, year int) domain.ThresholdMap {
	if e, ok := r.cache.Get(year); ok {
		r.metrics.CacheHitsTotal.Inc()
		r.logger.DebugContext(ctx, "using cached thresholds", "year", year, "source", e.Source)
		return e.Thresholds.Clone()
	}
	r.metrics.CacheMissesTotal.Inc()

	generation := r.cache.Generation()
	key := strconv.FormatUint(generation, 10) + "/" + strconv.Itoa(year)
	v, _, _ := r.group.Do(key, func() (any, error) {
		// a flight that finished between the miss and Do has already cached
		if e, ok := r.cache.Get(year); ok {
			return resolution{thresholds: e.Thresholds, source: e.Source}, nil
		}
		// the flight is shared, so it outlives any one caller's cancellation
		return r.resolve(context.WithoutCancel(ctx), generation, year), nil
	})
	return v.(resolution).thresholds.Clone()
}

// resolve walks the tier chain once and caches the winner
func (r *Registry) resolve(ctx context.Context, generation uint64, year int) resolution {
	ctx, span := r.tracer.Start(ctx, "thresholds.resolve", trace.WithAttributes(attribute.Int("year", year)))
	defer span.End()
	started := time.Now()

	res, storeErr := r.walkTiers(ctx, year)

	span.SetAttributes(
		attribute.String("source", string(res.source)),
		attribute.Int("threshold_count", len(res.thresholds)),
	)
	if storeErr != nil {
		span.RecordError(storeErr)
		span.SetStatus(codes.Error, storeErr.Error())
	}

	ttl := r.ttl
	if res.source != SourceDatabase {
		ttl = time.Duration(float64(r.ttl) * fallbackTTLFactor)
	}
	entry, stored := r.cache.Put(generation, year, res.thresholds, res.source, ttl)
	if !stored {
		r.logger.DebugContext(ctx, "threshold resolution not cached", "year", year, "source", res.source)
	}

	r.metrics.RecordResolution(res.source, len(res.thresholds), time.Since(started).Seconds())
	r.recordHealth(year, res, entry.StoredAt, storeErr)
	return res
}

func (r *Registry) walkTiers(ctx context.Context, year int) (resolution, error) {
	var storeErr error
	if r.store != nil {
		m, err := r.fetchFromStore(ctx, year)
		switch {
		case err != nil:
			storeErr = err
			r.metrics.StoreErrorsTotal.Inc()
			r.logger.WarnContext(ctx, "failed to load thresholds from store", "year", year, "error", err)
		case len(m) == 0:
			r.logger.WarnContext(ctx, "no active thresholds found in store", "year", year)
		default:
			r.logger.InfoContext(ctx, "loaded thresholds from store", "year", year, "count", len(m))
			return resolution{thresholds: m, source: SourceDatabase}, nil
		}
	}

	if len(r.envFallback) > 0 {
		r.logger.WarnContext(ctx, "using environment fallback thresholds", "year", year)
		return resolution{thresholds: r.envFallback.Clone(), source: SourceEnvFallback}, storeErr
	}

	r.logger.WarnContext(ctx, "using built-in fallback thresholds", "year", year)
	return resolution{thresholds: FallbackThresholds(), source: SourceFallback}, storeErr
}

// fetchFromStore converts a store panic into an error so a misbehaving
// store degrades to the next tier like any other failure
func (r *Registry) fetchFromStore(ctx context.Context, year int) (m domain.ThresholdMap, err error) {
	defer func() {
		if p := recover(); p != nil {
			m, err = nil, fmt.Errorf("threshold store panicked: %v", p)
		}
	}()
	return r.store.FetchActiveThresholds(ctx, year)
}

func (r *Registry) recordHealth(year int, res resolution, at time.Time, storeErr error) {
	h := Health{
		IsHealthy:      res.source == SourceDatabase,
		Resolved:       true,
		Source:         res.source,
		ThresholdCount: len(res.thresholds),
		Year:           year,
		ResolvedAt:     at,
	}
	if storeErr != nil {
		h.LastError = storeErr.Error()
	}
	r.healthMu.Lock()
	r.health = h
	r.healthMu.Unlock()
}

// Health reports the tier used by the last resolution without fetching.
// Before any resolution it reports the compiled-in tier as unresolved.
func (r *Registry) Health() Health {
	r.healthMu.RLock()
	defer r.healthMu.RUnlock()
	if !r.health.Resolved {
		return Health{Source: SourceFallback, ThresholdCount: len(fallbackThresholds)}
	}
	return r.health
}

// InvalidateCache clears every cached year. Maps already returned are unaffected.
func (r *Registry) InvalidateCache() {
	r.cache.Clear()
	r.metrics.CacheInvalidationsTotal.Inc()
	r.logger.Info("threshold cache invalidated")
}

// ThresholdByKey returns one threshold of the active map
func (r *Registry) ThresholdByKey(ctx context.Context, key domain.ThresholdKey, year int) (domain.Threshold, bool) {
	t, ok := r.ActiveThresholds(ctx, year)[key]
	return t, ok
}

// ThresholdsByKind returns the active thresholds of one kind, lowest yen first
func (r *Registry) ThresholdsByKind(ctx context.Context, kind domain.ThresholdKind, year int) []domain.Threshold {
	var out []domain.Threshold
	for _, t := range r.ActiveThresholds(ctx, year).Sorted() {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// ValidKeys returns the keys of the active map in sorted order
func (r *Registry) ValidKeys(ctx context.Context, year int) []domain.ThresholdKey {
	m := r.ActiveThresholds(ctx, year)
	keys := make([]domain.ThresholdKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (r *Registry) adminStore() (AdminStore, error) {
	admin, ok := r.store.(AdminStore)
	if !ok || r.store == nil {
		return nil, ErrReadOnlyStore
	}
	return admin, nil
}

// UpsertThreshold validates and writes one threshold, then invalidates the cache
func (r *Registry) UpsertThreshold(ctx context.Context, year int, t domain.Threshold) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, err)
	}
	admin, err := r.adminStore()
	if err != nil {
		return err
	}
	if err := admin.UpsertThreshold(ctx, year, t); err != nil {
		return fmt.Errorf("failed to upsert threshold %s for %d: %w", t.Key, year, err)
	}
	r.InvalidateCache()
	return nil
}

// ActivateYear marks the given keys active for year and invalidates the cache
func (r *Registry) ActivateYear(ctx context.Context, year int, keys []domain.ThresholdKey) (int, error) {
	admin, err := r.adminStore()
	if err != nil {
		return 0, err
	}
	n, err := admin.ActivateThresholds(ctx, year, keys)
	if err != nil {
		return 0, fmt.Errorf("failed to activate thresholds for %d: %w", year, err)
	}
	r.logger.InfoContext(ctx, "activated thresholds", "year", year, "keys", len(keys), "affected", n)
	r.InvalidateCache()
	return n, nil
}
