// Package listview implements the paginated list state machine shared by
// the member and notice screens: page loads, bounded page navigation, and
// an optimistic per-row status toggle that rolls back on failure.
package listview

import (
	"context"
	"fmt"
	"sync"

	"moodiary/internal/application/listutil"
)

// FetchFunc loads one page of rows from the backend.
type FetchFunc[T any] func(ctx context.Context, page, size int) (items []T, totalPages int, err error)

// ApplyFunc returns the row with the optimistic mutation applied.
type ApplyFunc[T any] func(row T) T

// CommitFunc persists a mutated row through the general update endpoint,
// carrying the full row payload. The returned pointer is the
// server-confirmed row, nil when the backend answered without a body.
type CommitFunc[T any] func(ctx context.Context, row T) (*T, error)

// IDFunc names a row for error reporting.
type IDFunc[T any] func(row T) string

// Mutation bundles the per-row toggle behavior.
type Mutation[T any] struct {
	Apply  ApplyFunc[T]
	Commit CommitFunc[T]
	ID     IDFunc[T]
}

// Controller holds the state of one paginated list view.
//
// A generation counter guards against stale loads: a page fetch that
// resolves after a newer fetch was issued for the same list is discarded
// instead of clobbering newer state.
type Controller[T any] struct {
	fetch    FetchFunc[T]
	size     int
	mutation *Mutation[T]

	mu         sync.Mutex
	items      []T
	info       listutil.PageInfo
	loading    bool
	loadErr    error
	rowErr     error
	generation uint64
}

// New creates a controller over the given page fetcher.
// PRE: fetch is non-nil; size > 0
// POST: Returns an empty controller positioned on page 0
func New[T any](fetch FetchFunc[T], size int) *Controller[T] {
	if size < 1 {
		size = listutil.DefaultSize
	}
	return &Controller[T]{
		fetch: fetch,
		size:  size,
		info:  listutil.NewPageInfo(0, size, 0),
	}
}

// WithMutation enables the optimistic per-row toggle.
func (c *Controller[T]) WithMutation(m Mutation[T]) *Controller[T] {
	c.mutation = &m
	return c
}

// Load fetches the given page and replaces the list state.
// PRE: page >= 0
// POST: On success Items and TotalPages reflect the response; on failure
// Items is cleared, TotalPages is 0, and Err carries the failure. A load
// superseded by a newer one leaves the newer state untouched.
func (c *Controller[T]) Load(ctx context.Context, page int) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loading = true
	c.mu.Unlock()

	items, totalPages, err := c.fetch(ctx, page, c.size)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// A newer load owns the state now.
		return err
	}
	c.loading = false
	if err != nil {
		c.items = nil
		c.info = listutil.NewPageInfo(page, c.size, 0)
		c.loadErr = err
		return err
	}
	c.items = items
	c.info = listutil.NewPageInfo(page, c.size, totalPages)
	c.loadErr = nil
	return nil
}

// ChangePage navigates to another page.
// PRE: none
// POST: No-op when n is out of [0, TotalPages), equal to the current page,
// or a load is in flight; otherwise triggers Load(n)
func (c *Controller[T]) ChangePage(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.loading || n < 0 || n >= c.info.TotalPages || n == c.info.Page {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.Load(ctx, n)
}

// Retry repeats the load for the current page.
func (c *Controller[T]) Retry(ctx context.Context) error {
	c.mu.Lock()
	page := c.info.Page
	c.mu.Unlock()
	return c.Load(ctx, page)
}

// Toggle applies the configured mutation to the row at index.
// The in-memory row flips synchronously before the backend call; a failed
// commit rolls the row back and records an error naming the row. A
// body-bearing success reconciles the row to the server's returned value.
// PRE: the controller was built WithMutation; index addresses a loaded row
// POST: Row state matches the server on success, the pre-toggle value on
// failure
func (c *Controller[T]) Toggle(ctx context.Context, index int) error {
	if c.mutation == nil {
		return fmt.Errorf("list has no row mutation configured")
	}

	c.mu.Lock()
	if index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return fmt.Errorf("row %d is not loaded", index)
	}
	before := c.items[index]
	flipped := c.mutation.Apply(before)
	c.items[index] = flipped
	c.rowErr = nil
	c.mu.Unlock()

	confirmed, err := c.mutation.Commit(ctx, flipped)

	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.mutation.ID(before)
	idx := c.indexOfLocked(id)
	if err != nil {
		if idx >= 0 {
			c.items[idx] = before
		}
		c.rowErr = fmt.Errorf("update for %s failed: %w", id, err)
		return c.rowErr
	}
	if confirmed != nil && idx >= 0 {
		c.items[idx] = *confirmed
	}
	return nil
}

// indexOfLocked finds a row by ID. Caller holds c.mu.
func (c *Controller[T]) indexOfLocked(id string) int {
	if c.mutation == nil {
		return -1
	}
	for i, item := range c.items {
		if c.mutation.ID(item) == id {
			return i
		}
	}
	return -1
}

// Items returns a copy of the loaded rows.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// PageInfo returns the current pagination metadata.
func (c *Controller[T]) PageInfo() listutil.PageInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// Loading reports whether a load is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last load failure, nil after a successful load.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// RowErr returns the last row mutation failure, cleared on the next toggle.
func (c *Controller[T]) RowErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rowErr
}
