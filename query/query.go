package query

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jonwraymond/pcokit/observe"
)

// Func fetches the data of one query.
type Func[T any] func(ctx context.Context) (T, error)

// Options configure a Query.
type Options[T any] struct {
	// Disabled queries do nothing on Start. Refetch still works once started.
	Disabled bool

	// RefetchInterval, when positive, refetches on a ticker until Stop.
	RefetchInterval time.Duration

	// OnSuccess is called after a fetched result is committed.
	OnSuccess func(T)

	// OnError is called once per failed fetch that is committed.
	OnError func(error)
}

// State is a snapshot of a query or mutation.
type State[T any] struct {
	Data    T
	HasData bool
	Loading bool

	// Err is non-nil exactly when the latest attempt failed and nothing
	// newer succeeded.
	Err error

	// UpdatedAt is when Data was last committed.
	UpdatedAt time.Time
}

// subscriberBuffer is the per-subscriber backlog. A slow subscriber loses
// its oldest pending states, never the latest.
const subscriberBuffer = 8

// Query is one observed fetch bound to a cache key. It is safe for
// concurrent use.
type Query[T any] struct {
	c *Client

	mu     sync.Mutex
	key    string
	fn     Func[T]
	opts   Options[T]
	state  State[T]
	active bool
	seq    uint64
	subs   map[int]chan State[T]
	nextID int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a stopped Query. Call Start to activate it.
func New[T any](c *Client, key string, fn Func[T], opts Options[T]) *Query[T] {
	return &Query[T]{
		c:    c,
		key:  key,
		fn:   fn,
		opts: opts,
		subs: make(map[int]chan State[T]),
	}
}

// Key returns the current cache key.
func (q *Query[T]) Key() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.key
}

// State returns a snapshot of the current state.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Subscribe returns a channel receiving every state change and a function
// that unsubscribes and closes the channel.
func (q *Query[T]) Subscribe() (<-chan State[T], func()) {
	ch := make(chan State[T], subscriberBuffer)

	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.subs[id] = ch
	q.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			q.mu.Lock()
			delete(q.subs, id)
			q.mu.Unlock()
			close(ch)
		})
	}
}

// Start activates the query. A fresh cached payload is served without a
// fetch; otherwise the initial fetch runs before Start returns. Starting an
// active query does nothing.
func (q *Query[T]) Start(ctx context.Context) {
	q.mu.Lock()
	if q.active {
		q.mu.Unlock()
		return
	}
	q.active = true
	disabled := q.opts.Disabled
	interval := q.opts.RefetchInterval
	q.mu.Unlock()

	if disabled {
		return
	}

	if !q.serveCached(ctx) {
		_ = q.run(ctx)
	}

	if interval > 0 {
		q.startInterval(ctx, interval)
	}
}

// Stop deactivates the query and waits for the refetch goroutine to exit.
// Results of fetches still in flight are discarded.
func (q *Query[T]) Stop() {
	q.mu.Lock()
	if !q.active {
		q.mu.Unlock()
		return
	}
	q.active = false
	q.seq++
	cancel := q.cancel
	q.cancel = nil
	if q.state.Loading {
		q.state.Loading = false
		q.publishLocked()
	}
	q.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	q.wg.Wait()
}

// Update replaces the key, fetch function and options. An active query is
// stopped and started again. State is reset when the key changes.
func (q *Query[T]) Update(ctx context.Context, key string, fn Func[T], opts Options[T]) {
	q.mu.Lock()
	wasActive := q.active
	q.mu.Unlock()

	q.Stop()

	q.mu.Lock()
	if key != q.key {
		q.state = State[T]{}
		q.publishLocked()
	}
	q.key, q.fn, q.opts = key, fn, opts
	q.mu.Unlock()

	if wasActive {
		q.Start(ctx)
	}
}

// Refetch fetches regardless of freshness and overwrites the cache entry.
// The returned error mirrors State().Err.
func (q *Query[T]) Refetch(ctx context.Context) error {
	return q.run(ctx)
}

// serveCached commits a fresh cached payload, if any.
func (q *Query[T]) serveCached(ctx context.Context) bool {
	q.mu.Lock()
	key := q.key
	q.mu.Unlock()

	b, ok := q.c.lookup(ctx, key)
	if !ok {
		return false
	}
	var data T
	if err := json.Unmarshal(b, &data); err != nil {
		q.c.logger.Warn(ctx, "discarding undecodable cache entry", observe.F("key", key), observe.F("error", err.Error()))
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.active || q.key != key {
		return true
	}
	q.state = State[T]{Data: data, HasData: true, UpdatedAt: q.c.now()}
	q.publishLocked()
	return true
}

// run performs one fetch. Only the latest fetch of an active query commits
// to state and cache.
func (q *Query[T]) run(ctx context.Context) error {
	q.mu.Lock()
	if !q.active {
		q.mu.Unlock()
		return ErrNotStarted
	}
	q.seq++
	seq := q.seq
	key, fn, opts := q.key, q.fn, q.opts
	q.state.Loading = true
	q.publishLocked()
	q.mu.Unlock()

	data, payload, err := load(ctx, q.c, key, fn)

	q.mu.Lock()
	if !q.active || seq != q.seq {
		q.mu.Unlock()
		return err
	}
	if err != nil {
		q.state.Err = err
	} else {
		q.state.Data = data
		q.state.HasData = true
		q.state.Err = nil
		q.state.UpdatedAt = q.c.now()
	}
	q.state.Loading = false
	q.publishLocked()
	q.mu.Unlock()

	if err != nil {
		if opts.OnError != nil {
			opts.OnError(err)
		}
		return err
	}
	q.c.save(context.WithoutCancel(ctx), key, payload)
	if opts.OnSuccess != nil {
		opts.OnSuccess(data)
	}
	return nil
}

func (q *Query[T]) startInterval(ctx context.Context, every time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.active || q.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	q.cancel = cancel
	q.wg.Add(1)
	go q.loop(loopCtx, every)
}

func (q *Query[T]) loop(ctx context.Context, every time.Duration) {
	defer q.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			_ = q.run(ctx)
		}
	}
}

// publishLocked delivers the current state to every subscriber without
// blocking. Callers hold q.mu.
func (q *Query[T]) publishLocked() {
	publish(q.subs, q.state)
}

func publish[T any](subs map[int]chan State[T], st State[T]) {
	for _, ch := range subs {
		select {
		case ch <- st:
			continue
		default:
		}
		// Full: drop the oldest pending state.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}
