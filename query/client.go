package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/pcokit/cache"
	"github.com/jonwraymond/pcokit/observe"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTTL sets the lifetime of stored payloads. Zero uses the store default.
func WithTTL(ttl time.Duration) ClientOption {
	return func(c *Client) { c.ttl = ttl }
}

// WithObserver instruments fetches and mutations and takes the logger and
// metrics of mw. Later WithLogger and WithMetrics options override them.
func WithObserver(mw *observe.Middleware) ClientOption {
	return func(c *Client) {
		if mw == nil {
			return
		}
		c.mw = mw
		c.logger = mw.Logger()
		c.metrics = mw.Metrics()
	}
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the cache hit/miss sink.
func WithMetrics(m observe.Metrics) ClientOption {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithClock replaces time.Now for State.UpdatedAt.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client is shared by every query and mutation of one application. It owns
// the store and the single-flight group.
type Client struct {
	store   cache.Cache
	ttl     time.Duration
	group   singleflight.Group
	mw      *observe.Middleware
	logger  observe.Logger
	metrics observe.Metrics
	now     func() time.Time
}

// NewClient creates a Client over store. A nil store gets a private
// MemoryCache with the default policy.
func NewClient(store cache.Cache, opts ...ClientOption) *Client {
	if store == nil {
		store = cache.NewMemoryCache(cache.DefaultPolicy())
	}
	c := &Client{
		store:   store,
		mw:      observe.NopMiddleware(),
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying cache.
func (c *Client) Store() cache.Cache {
	return c.store
}

// Invalidate evicts every entry whose key starts with one of prefixes.
func (c *Client) Invalidate(ctx context.Context, prefixes ...string) error {
	var errs []error
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		n, err := c.store.DeletePrefix(ctx, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("query: invalidate %q: %w", p, err))
			continue
		}
		c.logger.Debug(ctx, "cache invalidated", observe.F("prefix", p), observe.F("evicted", n))
	}
	return errors.Join(errs...)
}

// Clear empties the store.
func (c *Client) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// lookup reads a fresh payload for key and records the hit or miss.
func (c *Client) lookup(ctx context.Context, key string) ([]byte, bool) {
	b, ok := c.store.Get(ctx, key)
	c.metrics.RecordCache(ctx, resourceOf(key), ok)
	return b, ok
}

// load runs fn once per key across all concurrent callers and decodes the
// shared result for this caller. It returns the encoded payload so the caller
// can store it once it knows the result is still wanted.
//
// The shared fetch is detached from the cancellation of whichever caller
// started it; each caller stops waiting when its own ctx is done.
func load[T any](ctx context.Context, c *Client, key string, fn Func[T]) (T, []byte, error) {
	meta := observe.OperationMeta{Kind: observe.KindQuery, Resource: resourceOf(key)}
	fetchCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(key, func() (any, error) {
		var payload []byte
		err := c.mw.Wrap(func(ctx context.Context, _ observe.OperationMeta) error {
			data, err := call(key, func() (T, error) { return fn(ctx) })
			if err != nil {
				return err
			}
			b, err := json.Marshal(data)
			if err != nil {
				return fmt.Errorf("query: encode %s: %w", key, err)
			}
			payload = b
			return nil
		})(fetchCtx, meta)
		if err != nil {
			return nil, err
		}
		return payload, nil
	})

	var out T
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return out, nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return out, nil, res.Err
	}
	if res.Shared {
		c.logger.Debug(ctx, "joined in-flight fetch", observe.F("key", key))
	}
	payload := res.Val.([]byte)
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, nil, fmt.Errorf("query: decode %s: %w", key, err)
	}
	return out, payload, nil
}

// save stores payload under key. A failed write is logged and otherwise
// ignored; the committed state is already correct.
func (c *Client) save(ctx context.Context, key string, payload []byte) {
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.logger.Warn(ctx, "cache write failed", observe.F("key", key), observe.F("error", err.Error()))
	}
}

// call converts a panic in fn into an error wrapping ErrPanic.
func call[T any](name string, fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrPanic, name, r)
		}
	}()
	return fn()
}

// resourceOf returns the resource family of a key built by cache.BuildKey.
func resourceOf(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
