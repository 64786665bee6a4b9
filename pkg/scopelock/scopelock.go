// Package scopelock serializes mutations per rotation scope. Generation and
// manual reorder against the same scope are mutually exclusive; reads never
// lock. Acquisition waits are bounded so a held lock surfaces as Busy rather
// than a deadlock.
package scopelock

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

// Registry hands out one exclusive lock per scope key.
type Registry struct {
	mu      sync.Mutex
	locks   map[string]*semaphore.Weighted
	timeout time.Duration
}

// NewRegistry creates a registry whose Acquire waits at most timeout.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		locks:   make(map[string]*semaphore.Weighted),
		timeout: timeout,
	}
}

// Acquire takes the exclusive lock for the scope, waiting up to the
// registry timeout. On expiry or caller cancellation it fails with a
// BusyError. The returned release function must be called exactly once.
func (r *Registry) Acquire(ctx context.Context, scope model.Scope) (release func(), err error) {
	sem := r.lockFor(scope.Key())

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, &model.BusyError{Scope: scope}
	}

	var once sync.Once
	return func() {
		once.Do(func() { sem.Release(1) })
	}, nil
}

func (r *Registry) lockFor(key string) *semaphore.Weighted {
	r.mu.Lock()
	defer r.mu.Unlock()
	sem, ok := r.locks[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		r.locks[key] = sem
	}
	return sem
}
