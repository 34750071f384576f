package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster. It is safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	mu         sync.Mutex
	topics     map[string]map[*subscriber[T]]struct{}
	bufferSize int
	closed     bool
}

// NewMemoryBroadcaster creates a broadcaster whose subscribers buffer up to
// bufferSize messages. Sizes below 1 are raised to 1.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		topics:     make(map[string]map[*subscriber[T]]struct{}),
		bufferSize: max(bufferSize, 1),
	}
}

// Subscribe registers a subscriber for topic. It is removed when ctx is done.
// After Close it returns an already closed subscriber.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context, topic string) Subscriber[T] {
	sub := &subscriber[T]{
		topic:  topic,
		ch:     make(chan Message[T], b.bufferSize),
		detach: b.remove,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.shut()
		return sub
	}
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*subscriber[T]]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	b.mu.Unlock()

	if ctx.Done() != nil {
		context.AfterFunc(ctx, func() { _ = sub.Close() })
	}

	return sub
}

// Publish sends data to every subscriber of topic. Subscribers that cannot
// keep up are dropped.
func (b *MemoryBroadcaster[T]) Publish(_ context.Context, topic string, data T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	msg := Message[T]{Topic: topic, Data: data}
	for sub := range b.topics[topic] {
		if !sub.send(msg) {
			b.removeLocked(sub)
			sub.shut()
		}
	}
	return nil
}

// Subscribers returns the number of subscribers of topic.
func (b *MemoryBroadcaster[T]) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.topics[topic])
}

// CloseTopic closes and removes every subscriber of topic.
func (b *MemoryBroadcaster[T]) CloseTopic(topic string) {
	b.mu.Lock()
	subs := b.topics[topic]
	delete(b.topics, topic)
	b.mu.Unlock()

	for sub := range subs {
		sub.shut()
	}
}

// Close closes every subscriber. Later publishes fail with ErrClosed.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	topics := b.topics
	b.topics = make(map[string]map[*subscriber[T]]struct{})
	b.mu.Unlock()

	for _, subs := range topics {
		for sub := range subs {
			sub.shut()
		}
	}
	return nil
}

func (b *MemoryBroadcaster[T]) remove(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

func (b *MemoryBroadcaster[T]) removeLocked(sub *subscriber[T]) {
	subs, ok := b.topics[sub.topic]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
}
