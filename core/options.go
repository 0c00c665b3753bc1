package core

import (
	"context"
	"time"
)

// Cache is the cache-aside store in front of read-mostly queries.
// It is never consulted for invariant checks.
type Cache interface {
	// Get decodes the cached value into dest and reports whether the key was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (NopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error                       { return nil }

// ServiceOptions are the collaborators every engine service shares.
type ServiceOptions struct {
	Logger   Logger
	Events   EventSink
	Cache    Cache
	CacheTTL time.Duration
	Rand     Randomizer
	Now      func() time.Time
}

type Option func(*ServiceOptions)

func WithLogger(l Logger) Option         { return func(o *ServiceOptions) { o.Logger = l } }
func WithEvents(s EventSink) Option      { return func(o *ServiceOptions) { o.Events = s } }
func WithRandomizer(r Randomizer) Option { return func(o *ServiceOptions) { o.Rand = r } }
func WithClock(now func() time.Time) Option {
	return func(o *ServiceOptions) { o.Now = now }
}
func WithCache(c Cache, ttl time.Duration) Option {
	return func(o *ServiceOptions) {
		o.Cache = c
		o.CacheTTL = ttl
	}
}

func NewServiceOptions(opts ...Option) ServiceOptions {
	o := ServiceOptions{
		Logger:   NopLogger{},
		Events:   NopSink{},
		Cache:    NopCache{},
		CacheTTL: 30 * time.Second,
		Now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Rand == nil {
		o.Rand = NewRandomizer()
	}
	return o
}

// Emit hands an event to the sink once the surrounding transaction, if any, commits.
func (o ServiceOptions) Emit(ctx context.Context, kind, orgID, studentID string, attrs map[string]interface{}) {
	evt := Event{
		Kind:           kind,
		OrganizationID: orgID,
		StudentID:      studentID,
		Attrs:          attrs,
		OccurredAt:     o.Now().UTC(),
	}
	AfterCommit(ctx, func() { o.Events.Emit(ctx, evt) })
}

// Invalidate drops cached keys after commit. Failures only cost staleness and are logged.
func (o ServiceOptions) Invalidate(ctx context.Context, keys ...string) {
	AfterCommit(ctx, func() {
		if err := o.Cache.Delete(ctx, keys...); err != nil {
			o.Logger.Warn("cache invalidation failed", err)
		}
	})
}
