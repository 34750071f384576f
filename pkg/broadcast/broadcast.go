package broadcast

import (
	"context"
	"sync"
)

// Message wraps data published to a topic.
type Message[T any] struct {
	Topic string
	Data  T
}

// Subscriber receives the messages of one topic.
type Subscriber[T any] interface {
	// Receive returns the message channel. It is closed when the subscriber
	// is closed, dropped as a slow consumer or its topic is closed.
	Receive() <-chan Message[T]
	// Close unsubscribes. It is idempotent.
	Close() error
}

// Broadcaster publishes messages to topic subscribers.
type Broadcaster[T any] interface {
	Subscribe(ctx context.Context, topic string) Subscriber[T]
	Publish(ctx context.Context, topic string, data T) error
	CloseTopic(topic string)
	Close() error
}

type subscriber[T any] struct {
	topic  string
	ch     chan Message[T]
	mu     sync.Mutex
	closed bool
	detach func(*subscriber[T])
}

func (s *subscriber[T]) Receive() <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	if s.detach != nil {
		s.detach(s)
	}
	s.shut()
	return nil
}

// shut closes the channel once.
func (s *subscriber[T]) shut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// send delivers msg without blocking. It reports false when the buffer is
// full or the subscriber is closed.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
