// Package fetch tracks the loading, error and data state of a single
// URL-addressed upstream read.
package fetch

import (
	"context"
	"sync"
)

// Fetcher performs the request for url.
type Fetcher[T any] func(ctx context.Context, url string) (T, error)

// State is a snapshot of a Resource.
type State[T any] struct {
	URL     string
	Data    T
	HasData bool
	Loading bool
	Err     error
}

// Resource holds the state of the most recently requested URL. Only the
// latest request may update it, and nothing does once it is closed.
// In-flight requests are never cancelled; they run under a context
// detached from the one given to New.
type Resource[T any] struct {
	fetch Fetcher[T]
	ctx   context.Context

	mutex  sync.Mutex
	url    string
	gen    uint64
	state  State[T]
	done   chan struct{}
	closed bool
}

func New[T any](ctx context.Context, f Fetcher[T]) *Resource[T] {
	return &Resource[T]{
		fetch: f,
		ctx:   context.WithoutCancel(ctx),
	}
}

// Load points the resource at url. An empty url, or the url already loaded
// or in flight, is a no-op.
func (r *Resource[T]) Load(url string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if url == "" || r.closed || url == r.url {
		return
	}
	r.issue(url)
}

// Refetch re-issues the current url.
func (r *Resource[T]) Refetch() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.url == "" || r.closed {
		return
	}
	r.issue(r.url)
}

// issue must be called with the mutex held.
func (r *Resource[T]) issue(url string) {
	r.gen++
	r.url = url
	r.state.URL = url
	r.state.Loading = true
	r.state.Err = nil

	done := make(chan struct{})
	r.done = done
	go r.run(r.gen, url, done)
}

func (r *Resource[T]) run(gen uint64, url string, done chan struct{}) {
	defer close(done)

	data, err := r.fetch(r.ctx, url)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed || gen != r.gen {
		return
	}
	if err != nil {
		var zero T
		r.state = State[T]{URL: url, Data: zero, Err: err}
		return
	}
	r.state = State[T]{URL: url, Data: data, HasData: true}
}

// State returns the current snapshot.
func (r *Resource[T]) State() State[T] {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.state
}

// Wait blocks until the latest request has settled or ctx is done. A request
// issued while waiting extends the wait.
func (r *Resource[T]) Wait(ctx context.Context) (State[T], error) {
	for {
		r.mutex.Lock()
		done, gen := r.done, r.gen
		r.mutex.Unlock()

		if done == nil {
			return r.State(), nil
		}
		select {
		case <-ctx.Done():
			return r.State(), ctx.Err()
		case <-done:
		}

		r.mutex.Lock()
		settled := gen == r.gen
		r.mutex.Unlock()
		if settled {
			return r.State(), nil
		}
	}
}

// Close detaches the resource from its consumer. Completions that arrive
// afterwards are dropped.
func (r *Resource[T]) Close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.closed = true
}
