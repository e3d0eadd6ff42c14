package report

import (
	"context"
	"sync"
)

// Notifier fans out values to subscribers without ever blocking the sender.
// A subscriber that does not keep up misses values.
type Notifier[T any] struct {
	mu          sync.RWMutex
	subscribers map[<-chan T]chan T
	bufferSize  int
	closed      bool
}

// NotifierOptions configures a notifier
type NotifierOptions struct {
	// SubscriberBufferSize is the buffer size for each subscriber channel
	SubscriberBufferSize int
}

// DefaultNotifierOptions returns default options for a notifier
func DefaultNotifierOptions() NotifierOptions {
	return NotifierOptions{
		SubscriberBufferSize: 100,
	}
}

// NewNotifier creates a new notifier with default options
func NewNotifier[T any]() *Notifier[T] {
	return NewNotifierWithOptions[T](DefaultNotifierOptions())
}

// NewNotifierWithOptions creates a new notifier with specified options
func NewNotifierWithOptions[T any](options NotifierOptions) *Notifier[T] {
	return &Notifier[T]{
		subscribers: make(map[<-chan T]chan T),
		bufferSize:  options.SubscriberBufferSize,
	}
}

// Subscribe returns a channel that receives notifications.
// The channel is closed when ctx is done or the notifier is closed.
func (n *Notifier[T]) Subscribe(ctx context.Context) <-chan T {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		ch := make(chan T)
		close(ch)
		return ch
	}
	ch := make(chan T, n.bufferSize)
	n.subscribers[ch] = ch
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.Unsubscribe(ch)
	}()

	return ch
}

// Unsubscribe removes a subscription and closes its channel
func (n *Notifier[T]) Unsubscribe(ch <-chan T) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if realCh, exists := n.subscribers[ch]; exists {
		delete(n.subscribers, ch)
		close(realCh)
	}
}

// Notify sends item to every subscriber with free buffer space.
func (n *Notifier[T]) Notify(item T) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return
	}
	for _, ch := range n.subscribers {
		select {
		case ch <- item:
		default:
		}
	}
}

// Close closes the notifier and all subscriber channels
func (n *Notifier[T]) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for key, ch := range n.subscribers {
		delete(n.subscribers, key)
		close(ch)
	}
}
