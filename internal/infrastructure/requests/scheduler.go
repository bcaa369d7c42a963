// Package requests provides keyed in-flight request scheduling: issuing a
// new request under a logical key cancels any prior request under that key,
// so rapid filter changes never race a stale response past a fresh one.
package requests

import (
	"context"
	"sync"
)

type inflight struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler owns the mapping from logical key to the cancelation handle of
// the request currently in flight under that key.
type Scheduler struct {
	mu       sync.Mutex
	inflight map[string]*inflight
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{inflight: make(map[string]*inflight)}
}

// Submit cancels any in-flight work under key, then runs work on a new
// goroutine with a context that is canceled if another Submit arrives for
// the same key. Per key, results are therefore delivered in submission
// order; across keys no ordering is guaranteed.
func (s *Scheduler) Submit(key string, work func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	entry := &inflight{cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}
	s.inflight[key] = entry
	s.mu.Unlock()

	go func() {
		defer close(entry.done)
		defer func() {
			s.mu.Lock()
			if s.inflight[key] == entry {
				delete(s.inflight, key)
			}
			s.mu.Unlock()
			cancel()
		}()
		work(ctx)
	}()
}

// Cancel aborts any in-flight work under key.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	entry, ok := s.inflight[key]
	if ok {
		delete(s.inflight, key)
	}
	s.mu.Unlock()

	if ok {
		entry.cancel()
	}
}

// Wait blocks until the work currently registered under key (if any) has
// returned. Primarily useful in tests and shutdown paths.
func (s *Scheduler) Wait(key string) {
	s.mu.Lock()
	entry, ok := s.inflight[key]
	s.mu.Unlock()

	if ok {
		<-entry.done
	}
}
