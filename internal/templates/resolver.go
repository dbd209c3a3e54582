package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-markup/internal/logger"
	"github.com/jonathan/resume-markup/internal/metrics"
)

// Resolver maps a template id to a validated asset. Unknown or invalid ids
// fall back to DefaultID; only ErrStoreUnavailable is returned to callers.
type Resolver struct {
	store     Store
	cache     Cache
	log       logger.Logger
	defaultID string
}

// Option configures a Resolver
type Option func(*Resolver)

// WithCache replaces the default in-memory cache
func WithCache(c Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithLogger sets the resolver logger
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) { r.log = logger.OrNop(l) }
}

// WithDefaultID overrides the fallback template id
func WithDefaultID(id string) Option {
	return func(r *Resolver) {
		if id != "" {
			r.defaultID = id
		}
	}
}

// NewResolver builds a resolver over store. A nil store means the embedded
// templates only.
func NewResolver(store Store, opts ...Option) *Resolver {
	if store == nil {
		store = EmbeddedStore{}
	}
	r := &Resolver{
		store:     store,
		cache:     NewMemoryCache(),
		log:       logger.NewNoOpLogger(),
		defaultID: DefaultID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init prepares the cache
func (r *Resolver) Init(ctx context.Context) error {
	return r.cache.Init(ctx)
}

// DefaultID returns the fallback id in use
func (r *Resolver) DefaultID() string {
	return r.defaultID
}

// Resolve returns the asset for id and whether the default was substituted
func (r *Resolver) Resolve(ctx context.Context, id string) (TemplateAsset, bool, error) {
	if id == "" {
		id = r.defaultID
	}

	asset, err := r.lookupOrLoad(ctx, id)
	if err == nil {
		return asset, false, nil
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return TemplateAsset{}, false, err
	}
	if id == r.defaultID {
		asset = r.builtinDefault(ctx)
		return asset, asset.ID != id, nil
	}

	r.log.Warn("template unavailable, using default", map[string]interface{}{
		"template_id": id,
		"default_id":  r.defaultID,
		"reason":      err.Error(),
	})

	asset, err = r.lookupOrLoad(ctx, r.defaultID)
	if err == nil {
		return asset, true, nil
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return TemplateAsset{}, false, err
	}
	return r.builtinDefault(ctx), true, nil
}

func (r *Resolver) lookupOrLoad(ctx context.Context, id string) (TemplateAsset, error) {
	if asset, ok := r.cache.Lookup(ctx, id); ok {
		metrics.TemplateCacheLookups.WithLabelValues("hit").Inc()
		r.log.Debug("template cache hit", map[string]interface{}{"template_id": id})
		return asset, nil
	}
	metrics.TemplateCacheLookups.WithLabelValues("miss").Inc()
	r.log.Debug("template cache miss", map[string]interface{}{"template_id": id})

	skeleton, err := r.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStoreUnavailable) {
			return TemplateAsset{}, err
		}
		return TemplateAsset{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	asset := TemplateAsset{ID: id, Skeleton: skeleton}
	if err := asset.Validate(); err != nil {
		return TemplateAsset{}, err
	}
	r.insert(ctx, asset)
	return asset, nil
}

// builtinDefault is the last resort when the configured default is missing
// from every store
func (r *Resolver) builtinDefault(ctx context.Context) TemplateAsset {
	id := r.defaultID
	skeleton, err := EmbeddedStore{}.Load(ctx, id)
	if err != nil {
		id = DefaultID
		skeleton, _ = EmbeddedStore{}.Load(ctx, id)
	}
	r.log.Warn("default template missing from store, using built-in", map[string]interface{}{
		"template_id": id,
	})
	return TemplateAsset{ID: id, Skeleton: skeleton}
}

func (r *Resolver) insert(ctx context.Context, asset TemplateAsset) {
	if err := r.cache.Insert(ctx, asset); err != nil {
		r.log.WithError(err).Warn("failed to cache template", map[string]interface{}{"template_id": asset.ID})
	}
}
