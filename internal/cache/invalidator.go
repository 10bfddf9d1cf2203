// Package cache carries the page-cache invalidation signal emitted when
// a user row is discarded.
package cache

import "context"

type Invalidator interface {
	// InvalidatePath drops any cached render of the given route.
	InvalidatePath(ctx context.Context, path string) error
	Close() error
}

// Noop is used when no cache backend is configured.
type Noop struct{}

func (Noop) InvalidatePath(ctx context.Context, path string) error { return nil }

func (Noop) Close() error { return nil }
