package report

import (
	"context"
	"sync"
	"testing"
	"time"
)

// ResultWatcher records the results a report publishes, for use in tests.
type ResultWatcher struct {
	t       testing.TB
	cancel  context.CancelFunc
	done    chan struct{}
	timeout time.Duration

	mu      sync.Mutex
	results []Result
}

// Watch subscribes to rep until Wait or Stop is called or the test ends.
func Watch(t testing.TB, rep *Report) *ResultWatcher {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	w := &ResultWatcher{
		t:       t,
		cancel:  cancel,
		done:    make(chan struct{}),
		timeout: time.Second,
	}
	ch := rep.Subscribe(ctx)
	t.Cleanup(cancel)

	go func() {
		defer close(w.done)
		for result := range ch {
			w.mu.Lock()
			w.results = append(w.results, result)
			w.mu.Unlock()
		}
	}()

	return w
}

// Wait blocks until n results were published and returns them.
// The test fails if they do not arrive within a second.
func (w *ResultWatcher) Wait(n int) []Result {
	w.t.Helper()

	deadline := time.Now().Add(w.timeout)
	for time.Now().Before(deadline) {
		if results := w.snapshot(); len(results) >= n {
			w.cancel()
			return results
		}
		time.Sleep(time.Millisecond)
	}

	w.cancel()
	w.t.Fatalf("timeout waiting for %d results, got %d", n, len(w.snapshot()))
	return nil
}

// Stop ends the subscription and returns what was published so far.
func (w *ResultWatcher) Stop() []Result {
	w.cancel()
	<-w.done
	return w.snapshot()
}

func (w *ResultWatcher) snapshot() []Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Result(nil), w.results...)
}
