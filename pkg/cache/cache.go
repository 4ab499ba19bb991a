// Package cache stores rendered JSON views in Redis and drops them when the
// underlying data changes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/metrics"
	redisclient "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/redis"
	"go.uber.org/multierr"
)

const (
	ViewHome           = "home"
	ViewAdminMaterials = "admin:materials"
	ViewAdminOrders    = "admin:orders"
	chaptersPrefix     = "chapters"
)

// ChaptersView names the chapter listing of one subject/subcategory page.
func ChaptersView(subjectID, subcategoryID string) string {
	return fmt.Sprintf("%s:%s:%s", chaptersPrefix, subjectID, subcategoryID)
}

// family strips view parameters for metric labels.
func family(view string) string {
	if strings.HasPrefix(view, chaptersPrefix+":") {
		return chaptersPrefix
	}
	return view
}

// Invalidator is the signal writers emit after a committed change.
type Invalidator interface {
	Invalidate(ctx context.Context, views ...string)
}

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

type keyer interface {
	ViewKey(view string) string
}

// Views is the read-through surface shared by ViewCache and Nop.
type Views interface {
	Invalidator
	GetJSON(ctx context.Context, view string, dest any) (int64, bool)
	SetJSON(ctx context.Context, view string, gen int64, value any)
}

// NoGeneration marks a lookup whose generation could not be read. SetJSON
// ignores it.
const NoGeneration int64 = -1

// envelope is the stored form of a view. Gen is the view generation the
// payload was rendered under.
type envelope struct {
	Gen  int64           `json:"gen"`
	Data json.RawMessage `json:"data"`
}

// ViewCache is a read-through JSON cache keyed by view name. Every view has a
// generation counter that Invalidate bumps; a payload rendered under an older
// generation is treated as a miss, so a fill that raced an invalidation never
// serves stale data.
type ViewCache struct {
	store   store
	keys    keyer
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.Storefront
}

// New builds a view cache. A zero ttl disables caching of reads while
// invalidation keeps working.
func New(client *redisclient.Client, ttl time.Duration, logg *logger.Logger, m *metrics.Storefront) (*ViewCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &ViewCache{store: client, keys: client, ttl: ttl, logg: logg, metrics: m}, nil
}

func (c *ViewCache) genKey(view string) string {
	return c.keys.ViewKey(view) + ":gen"
}

// generation reads the current generation of view. A view that was never
// invalidated is at generation 0.
func (c *ViewCache) generation(ctx context.Context, view string) (int64, error) {
	raw, err := c.store.Get(ctx, c.genKey(view))
	if redisclient.IsNil(err) {
		return 0, nil
	}
	if err != nil {
		return NoGeneration, err
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return NoGeneration, fmt.Errorf("parse view generation: %w", err)
	}
	return gen, nil
}

// GetJSON loads a cached view into dest. On a miss it returns the generation
// the caller must hand back to SetJSON along with the freshly loaded value.
func (c *ViewCache) GetJSON(ctx context.Context, view string, dest any) (int64, bool) {
	if c == nil || c.ttl <= 0 {
		return NoGeneration, false
	}
	gen, err := c.generation(ctx, view)
	if err != nil {
		c.warn(ctx, view, "view generation read failed", err)
		return NoGeneration, false
	}

	key := c.keys.ViewKey(view)
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !redisclient.IsNil(err) {
			c.warn(ctx, view, "view cache read failed", err)
		}
		return gen, false
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		_ = c.store.Del(ctx, key)
		return gen, false
	}
	if env.Gen != gen {
		return gen, false
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		_ = c.store.Del(ctx, key)
		return gen, false
	}
	return gen, true
}

// SetJSON caches value under view as rendered at generation gen. Failures are
// logged and swallowed.
func (c *ViewCache) SetJSON(ctx context.Context, view string, gen int64, value any) {
	if c == nil || c.ttl <= 0 || gen < 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.warn(ctx, view, "view cache encode failed", err)
		return
	}
	payload, err := json.Marshal(envelope{Gen: gen, Data: data})
	if err != nil {
		c.warn(ctx, view, "view cache encode failed", err)
		return
	}
	if err := c.store.Set(ctx, c.keys.ViewKey(view), string(payload), c.ttl); err != nil {
		c.warn(ctx, view, "view cache write failed", err)
	}
}

// Invalidate bumps the generation of each named view and drops its payload.
// The write that triggered it has already committed, so failures are only
// logged.
func (c *ViewCache) Invalidate(ctx context.Context, views ...string) {
	if c == nil || len(views) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(views))
	keys := make([]string, 0, len(views))
	var errs error
	for _, view := range views {
		if view == "" {
			continue
		}
		if _, dup := seen[view]; dup {
			continue
		}
		seen[view] = struct{}{}
		if _, err := c.store.Incr(ctx, c.genKey(view)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("bump %s: %w", view, err))
		}
		keys = append(keys, c.keys.ViewKey(view))
	}
	if len(keys) == 0 {
		return
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("delete views: %w", err))
	}
	if errs != nil {
		c.warn(ctx, strings.Join(views, ","), "view invalidation failed", errs)
		return
	}
	for view := range seen {
		c.metrics.ViewInvalidated(family(view))
	}
}

func (c *ViewCache) warn(ctx context.Context, view, msg string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "view", view), msg+": "+err.Error())
}

// Nop satisfies Views without a backing store. Every read misses.
type Nop struct{}

func (Nop) Invalidate(context.Context, ...string) {}

func (Nop) GetJSON(context.Context, string, any) (int64, bool) { return NoGeneration, false }

func (Nop) SetJSON(context.Context, string, int64, any) {}
