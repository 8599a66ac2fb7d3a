package query

import (
	"context"
	"sync"

	"github.com/jonwraymond/pcokit/observe"
)

// MutationFunc performs one side-effecting call.
type MutationFunc[A, T any] func(ctx context.Context, args A) (T, error)

// MutationOptions configure a Mutation.
type MutationOptions[A, T any] struct {
	// Name labels telemetry, e.g. "schedules".
	Name string

	OnSuccess func(T)
	OnError   func(error)

	// Invalidates returns the cache key prefixes to evict after a
	// successful call with args.
	Invalidates func(args A) []string
}

// Mutation runs a MutationFunc and tracks its state. Results are never
// cached and calls are never retried.
type Mutation[A, T any] struct {
	c    *Client
	fn   MutationFunc[A, T]
	opts MutationOptions[A, T]

	mu     sync.Mutex
	state  State[T]
	seq    uint64
	subs   map[int]chan State[T]
	nextID int
}

// NewMutation creates a Mutation.
func NewMutation[A, T any](c *Client, fn MutationFunc[A, T], opts MutationOptions[A, T]) *Mutation[A, T] {
	return &Mutation[A, T]{
		c:    c,
		fn:   fn,
		opts: opts,
		subs: make(map[int]chan State[T]),
	}
}

// State returns a snapshot of the current state.
func (m *Mutation[A, T]) State() State[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe returns a channel receiving every state change and a function
// that unsubscribes and closes the channel.
func (m *Mutation[A, T]) Subscribe() (<-chan State[T], func()) {
	ch := make(chan State[T], subscriberBuffer)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

// Mutate runs the function with args. On success the declared prefixes are
// invalidated. The returned error is the error of this call.
func (m *Mutation[A, T]) Mutate(ctx context.Context, args A) error {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.state.Loading = true
	publish(m.subs, m.state)
	m.mu.Unlock()

	meta := observe.OperationMeta{Kind: observe.KindMutation, Resource: m.opts.Name}
	var data T
	err := m.c.mw.Wrap(func(ctx context.Context, _ observe.OperationMeta) error {
		var err error
		data, err = call(m.opts.Name, func() (T, error) { return m.fn(ctx, args) })
		return err
	})(ctx, meta)

	if err == nil && m.opts.Invalidates != nil {
		if ierr := m.c.Invalidate(ctx, m.opts.Invalidates(args)...); ierr != nil {
			m.c.logger.Warn(ctx, "invalidation after mutation failed",
				observe.F("mutation", m.opts.Name), observe.F("error", ierr.Error()))
		}
	}

	m.mu.Lock()
	if seq == m.seq {
		if err != nil {
			m.state.Err = err
		} else {
			m.state.Data = data
			m.state.HasData = true
			m.state.Err = nil
			m.state.UpdatedAt = m.c.now()
		}
		m.state.Loading = false
		publish(m.subs, m.state)
	}
	m.mu.Unlock()

	if err != nil {
		if m.opts.OnError != nil {
			m.opts.OnError(err)
		}
		return err
	}
	if m.opts.OnSuccess != nil {
		m.opts.OnSuccess(data)
	}
	return nil
}

// Reset clears the state.
func (m *Mutation[A, T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.state = State[T]{}
	publish(m.subs, m.state)
}
