// Package cleanup keeps release actions that must run on every exit path.
package cleanup

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

type action struct {
	seq  uint64
	name string
	fn   func() error
}

// Registry holds named release actions and runs them once, newest first.
type Registry struct {
	logger *zap.Logger

	mu      sync.Mutex
	next    uint64
	actions map[uint64]action
}

// New constructs a Registry.
func New(logger *zap.Logger) *Registry {
	return &Registry{
		logger:  logger,
		actions: make(map[uint64]action),
	}
}

// Add registers fn under name. The returned func runs fn at most once and
// deregisters it; Run skips actions that already ran.
func (r *Registry) Add(name string, fn func() error) func() error {
	r.mu.Lock()
	r.next++
	seq := r.next
	r.actions[seq] = action{seq: seq, name: name, fn: fn}
	r.mu.Unlock()

	return func() error {
		a, ok := r.take(seq)
		if !ok {
			return nil
		}
		return a.run()
	}
}

// Len returns the number of pending actions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actions)
}

// Run executes all pending actions in reverse registration order.
func (r *Registry) Run() error {
	r.mu.Lock()
	pending := make([]action, 0, len(r.actions))
	for _, a := range r.actions {
		pending = append(pending, a)
	}
	r.actions = make(map[uint64]action)
	r.mu.Unlock()

	sort.Slice(pending, func(i, j int) bool { return pending[i].seq > pending[j].seq })

	var errs []error
	for _, a := range pending {
		if err := a.run(); err != nil {
			if r.logger != nil {
				r.logger.Error("cleanup action failed", zap.String("action", a.name), zap.Error(err))
			}
			errs = append(errs, err)
			continue
		}
		if r.logger != nil {
			r.logger.Debug("cleanup action done", zap.String("action", a.name))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) take(seq uint64) (action, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actions[seq]
	if ok {
		delete(r.actions, seq)
	}
	return a, ok
}

func (a action) run() error {
	if err := a.fn(); err != nil {
		return fmt.Errorf("%s: %w", a.name, err)
	}
	return nil
}
