package requests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmitRunsWork(t *testing.T) {
	s := NewScheduler()

	done := make(chan struct{})
	s.Submit("orders", func(ctx context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("work never ran")
	}
}

func TestSubmitCancelsPriorWorkUnderSameKey(t *testing.T) {
	s := NewScheduler()

	started := make(chan struct{})
	canceled := make(chan struct{})

	s.Submit("orders", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(canceled)
	})
	<-started

	s.Submit("orders", func(ctx context.Context) {})

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("prior work was not canceled")
	}
}

func TestSubmitDistinctKeysRunIndependently(t *testing.T) {
	s := NewScheduler()

	var mu sync.Mutex
	canceled := false

	started := make(chan struct{})
	release := make(chan struct{})
	s.Submit("orders", func(ctx context.Context) {
		close(started)
		select {
		case <-ctx.Done():
			mu.Lock()
			canceled = true
			mu.Unlock()
		case <-release:
		}
	})
	<-started

	s.Submit("disputes", func(ctx context.Context) {})
	s.Wait("disputes")

	close(release)
	s.Wait("orders")

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, canceled)
}

func TestCancelAbortsInflightWork(t *testing.T) {
	s := NewScheduler()

	started := make(chan struct{})
	canceled := make(chan struct{})
	s.Submit("orders", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(canceled)
	})
	<-started

	s.Cancel("orders")

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("cancel did not abort the work")
	}
}

func TestWaitWithoutInflightReturnsImmediately(t *testing.T) {
	s := NewScheduler()
	s.Wait("nothing")
}
