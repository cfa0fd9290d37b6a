package structure

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/internal/infrastructure/database/redis"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
)

// MarkupCacheName labels the markup cache in metrics.
const MarkupCacheName = "markup"

// CachedMarkup is a Renderer that keeps rendered fragments in a Cache.
// Molecules, groups and species are cached; the remaining kinds are cheap and
// go straight to the wrapped Renderer.  Cache failures fall back to rendering.
type CachedMarkup struct {
	next    Renderer
	cache   redis.Cache
	ttl     time.Duration
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewCachedMarkup wraps next.  A zero ttl uses the cache's default.
func NewCachedMarkup(next Renderer, cache redis.Cache, ttl time.Duration, logger logging.Logger, metrics *prometheus.AppMetrics) *CachedMarkup {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedMarkup{next: next, cache: cache, ttl: ttl, logger: logger, metrics: metrics}
}

// StructureInfo implements Renderer.
func (c *CachedMarkup) StructureInfo(ctx context.Context, obj domain.Object) (string, error) {
	if obj == nil {
		return "", nil
	}
	return c.render(ctx, "info", domain.Unwrap(obj), obj, c.next.StructureInfo)
}

// StructureMarkup implements Renderer.
func (c *CachedMarkup) StructureMarkup(ctx context.Context, obj domain.Object) (string, error) {
	if obj == nil {
		return "", nil
	}
	return c.render(ctx, "markup", obj, obj, c.next.StructureMarkup)
}

type renderFunc func(context.Context, domain.Object) (string, error)

// render looks target up under the key derived from keyObj.  For info the key
// comes from the unwrapped object while target stays as given.
func (c *CachedMarkup) render(ctx context.Context, op string, keyObj, obj domain.Object, fn renderFunc) (string, error) {
	if keyObj == nil {
		return fn(ctx, obj)
	}
	key, ok := CacheKey(op, keyObj)
	if !ok || c.cache == nil {
		return fn(ctx, obj)
	}

	hit := true
	var out string
	err := c.cache.GetOrSet(ctx, key, &out, c.ttl, func(ctx context.Context) (interface{}, error) {
		hit = false
		return fn(ctx, obj)
	})
	if err == nil {
		prometheus.RecordCacheAccess(c.metrics, MarkupCacheName, hit)
		return out, nil
	}
	if !hit {
		// The renderer itself failed.
		return "", err
	}

	c.logger.WithContext(ctx).Warn("markup cache unavailable, rendering directly",
		logging.String("key", key), logging.Err(err))
	prometheus.RecordCacheAccess(c.metrics, MarkupCacheName, false)
	return fn(ctx, obj)
}

// CacheKey returns the cache key for rendering obj with op, or false when obj
// is not worth caching.  Keys depend on the serialized structure so equal
// structures share an entry.
func CacheKey(op string, obj domain.Object) (string, bool) {
	v := &keyVisitor{}
	obj.Accept(v)
	if v.content == "" {
		return "", false
	}
	sum := sha256.Sum256([]byte(v.content))
	return MarkupCacheName + ":" + op + ":" + string(obj.Kind()) + ":" + hex.EncodeToString(sum[:]), true
}

type keyVisitor struct {
	content string
}

func (v *keyVisitor) VisitMolecule(m *domain.Molecule) { v.content = m.AdjacencyList() }
func (v *keyVisitor) VisitGroup(g *domain.Group)       { v.content = g.AdjacencyList() }

func (v *keyVisitor) VisitSpecies(s *domain.Species) {
	m, ok := s.Primary()
	if !ok {
		return
	}
	v.content = s.Label + "\x00" + m.AdjacencyList()
}

func (v *keyVisitor) VisitEntry(*domain.Entry)            {}
func (v *keyVisitor) VisitText(domain.Text)               {}
func (v *keyVisitor) VisitUnsupported(domain.Unsupported) {}

//Personal.AI order the ending
