package pubsub

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrPublisherClosed is returned by PublishAuthEvent after Close.
var ErrPublisherClosed = errors.New("event publisher closed")

// inflight runs deliveries off the request path and lets Close wait for them.
type inflight struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (f *inflight) goDeliver(deliver func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrPublisherClosed
	}
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		deliver()
	}()

	return nil
}

// drain refuses new deliveries and blocks until the started ones finish.
func (f *inflight) drain() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.wg.Wait()
}
