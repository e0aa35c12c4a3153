// Package paging accumulates pages of a server-paginated collection.
package paging

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned when a load is requested while another is in flight.
var ErrBusy = errors.New("paging: a page load is already in flight")

// Keyed is implemented by records with a primary key.
type Keyed interface {
	Key() int
}

// Page is one upstream page. HasTotal is false when the total-count
// header was absent.
type Page[T any] struct {
	Items    []T
	Total    int
	HasTotal bool
}

// PageFetcher loads page (1-based) of the given size.
type PageFetcher[T any] func(ctx context.Context, page, size int) (Page[T], error)

// Totals resolves the collection size when the upstream does not say.
// IfZero applies to a zero or unparseable total; zero keeps the total as is.
type Totals struct {
	IfAbsent int
	IfZero   int
}

// Loader appends pages de-duplicated by key.
type Loader[T Keyed] struct {
	fetch  PageFetcher[T]
	size   int
	totals Totals

	mutex   sync.Mutex
	items   []T
	seen    map[int]struct{}
	page    int
	hasMore bool
	loading bool
	err     error
}

func New[T Keyed](f PageFetcher[T], size int, totals Totals) *Loader[T] {
	if size < 1 {
		size = 1
	}
	return &Loader[T]{
		fetch:   f,
		size:    size,
		totals:  totals,
		seen:    make(map[int]struct{}),
		hasMore: true,
	}
}

// LoadPage fetches target and merges it into the loaded items. On error the
// items already loaded are kept and Err reports the failure.
func (l *Loader[T]) LoadPage(ctx context.Context, target int) error {
	l.mutex.Lock()
	if l.loading {
		l.mutex.Unlock()
		return ErrBusy
	}
	l.loading = true
	l.err = nil
	l.mutex.Unlock()

	p, err := l.fetch(ctx, target, l.size)

	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.loading = false

	if err != nil {
		l.err = err
		return err
	}
	for _, item := range p.Items {
		k := item.Key()
		if _, dup := l.seen[k]; dup {
			continue
		}
		l.seen[k] = struct{}{}
		l.items = append(l.items, item)
	}
	l.page = target
	l.hasMore = target*l.size < l.total(p)
	return nil
}

func (l *Loader[T]) total(p Page[T]) int {
	if !p.HasTotal {
		return l.totals.IfAbsent
	}
	if p.Total <= 0 && l.totals.IfZero > 0 {
		return l.totals.IfZero
	}
	return p.Total
}

// LoadMore fetches the page after the last loaded one.
func (l *Loader[T]) LoadMore(ctx context.Context) error {
	return l.LoadPage(ctx, l.Page()+1)
}

// OnSentinelVisible is the infinite-scroll trigger. It does nothing while a
// load is in flight or when the collection is exhausted.
func (l *Loader[T]) OnSentinelVisible(ctx context.Context) error {
	l.mutex.Lock()
	skip := l.loading || !l.hasMore
	l.mutex.Unlock()
	if skip {
		return nil
	}
	err := l.LoadMore(ctx)
	if errors.Is(err, ErrBusy) {
		return nil
	}
	return err
}

// Retry reloads the last loaded page, or the first when none loaded.
func (l *Loader[T]) Retry(ctx context.Context) error {
	return l.LoadPage(ctx, max(1, l.Page()))
}

// Reset clears everything and loads the first page again.
func (l *Loader[T]) Reset(ctx context.Context) error {
	l.mutex.Lock()
	if l.loading {
		l.mutex.Unlock()
		return ErrBusy
	}
	l.items = nil
	l.seen = make(map[int]struct{})
	l.page = 0
	l.hasMore = true
	l.err = nil
	l.mutex.Unlock()

	return l.LoadPage(ctx, 1)
}

// Items returns a copy of the loaded items in load order.
func (l *Loader[T]) Items() []T {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]T(nil), l.items...)
}

func (l *Loader[T]) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.items)
}

func (l *Loader[T]) Page() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.page
}

func (l *Loader[T]) HasMore() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.hasMore
}

func (l *Loader[T]) Loading() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.loading
}

func (l *Loader[T]) Err() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.err
}

func (l *Loader[T]) Size() int {
	return l.size
}
