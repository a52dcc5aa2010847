// Package pubsub fans out messages to any number of subscribers.
//
// Publish never blocks: a subscriber that falls behind by more than its buffer size misses messages.
package pubsub

import (
	"log/slog"
	"sync"
)

// DefaultBufferSize is the channel capacity of each subscriber.
const DefaultBufferSize = 16

// Publisher sends each published message to all current subscribers.
type Publisher[T any] struct {
	subscribers map[chan T]*subscriber
	logger      *slog.Logger
	bufferSize  int
	lock        sync.RWMutex
}

type subscriber struct {
	// dropped counts the messages lost since the subscriber last received one
	dropped int
}

// New returns a Publisher whose subscribers have a buffer of DefaultBufferSize messages.
func New[T any](logger *slog.Logger) *Publisher[T] {
	return NewWithBuffer[T](DefaultBufferSize, logger)
}

// NewWithBuffer returns a Publisher whose subscribers have a buffer of size messages.
func NewWithBuffer[T any](size int, logger *slog.Logger) *Publisher[T] {
	return &Publisher[T]{
		subscribers: make(map[chan T]*subscriber),
		logger:      logger,
		bufferSize:  max(size, 0),
	}
}

// Subscribe returns a channel that receives every subsequently published message. Call Unsubscribe when done.
func (p *Publisher[T]) Subscribe() chan T {
	ch := make(chan T, p.bufferSize)
	p.lock.Lock()
	p.subscribers[ch] = &subscriber{}
	count := len(p.subscribers)
	p.lock.Unlock()
	p.logger.Debug("subscriber added", slog.Int("subscribers", count))
	return ch
}

// Unsubscribe stops sending messages to ch.
func (p *Publisher[T]) Unsubscribe(ch chan T) {
	p.lock.Lock()
	delete(p.subscribers, ch)
	count := len(p.subscribers)
	p.lock.Unlock()
	p.logger.Debug("subscriber removed", slog.Int("subscribers", count))
}

// Publish offers msg to every subscriber and returns the number of subscribers that received it.
func (p *Publisher[T]) Publish(msg T) int {
	// write lock: drop counters are updated
	p.lock.Lock()
	defer p.lock.Unlock()
	var delivered int
	for ch, s := range p.subscribers {
		select {
		case ch <- msg:
			if s.dropped > 0 {
				p.logger.Warn("subscriber missed messages", "dropped", s.dropped)
				s.dropped = 0
			}
			delivered++
		default:
			s.dropped++
		}
	}
	return delivered
}

// Subscribers returns the current number of subscribers.
func (p *Publisher[T]) Subscribers() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.subscribers)
}
