// Package hub implements a single-producer, multi-subscriber event fan-out.
//
// Every subscriber has its own buffered queue and drains it at its own pace.
// Publishing never blocks on a slow subscriber: a subscriber whose queue is
// full at publish time is dropped from the set and sees end-of-stream. Within
// one subscriber, delivery order always matches publish order.
package hub

import "sync/atomic"

// subscriberBuffer is the per-subscriber queue depth. A subscriber that
// falls this far behind the producer is considered permanently stalled.
const subscriberBuffer = 256

// Subscription is one independent consumer of a Hub. It is not safe to share
// a Subscription between goroutines; request one per consumer instead.
type Subscription[T any] struct {
	ch chan T
}

// Events returns the subscription's queue. The channel is closed when the
// hub shuts down or the subscription is dropped for stalling.
func (s *Subscription[T]) Events() <-chan T {
	return s.ch
}

// Next blocks for the next event. ok is false on end-of-stream.
func (s *Subscription[T]) Next() (v T, ok bool) {
	v, ok = <-s.ch
	return v, ok
}

// Hub fans one event stream out to any number of subscribers.
type Hub[T any] struct {
	publish chan T
	adds    chan *Subscription[T]
	done    chan struct{}
	closed  atomic.Bool
}

// New creates a hub along with its first subscription.
func New[T any]() (*Hub[T], *Subscription[T]) {
	h := &Hub[T]{
		publish: make(chan T),
		adds:    make(chan *Subscription[T]),
		done:    make(chan struct{}),
	}
	initial := &Subscription[T]{ch: make(chan T, subscriberBuffer)}
	go h.dispatch(initial)
	return h, initial
}

// Subscribe registers a new consumer that observes only events published
// from this point forward. Subscribing to a closed hub succeeds and returns
// a subscription that immediately yields end-of-stream.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{ch: make(chan T, subscriberBuffer)}
	select {
	case h.adds <- sub:
	case <-h.done:
		close(sub.ch)
	}
	return sub
}

// Publish delivers v to every live subscriber, in publish order. It returns
// once v is queued for all of them; subscribers with full queues are dropped
// rather than waited on. Publishing to a closed hub is a no-op.
func (h *Hub[T]) Publish(v T) {
	select {
	case h.publish <- v:
	case <-h.done:
	}
}

// Close ends the stream: every subscription's channel is closed after any
// already-queued events drain. Close is idempotent.
func (h *Hub[T]) Close() {
	if h.closed.CompareAndSwap(false, true) {
		close(h.done)
	}
}

func (h *Hub[T]) dispatch(initial *Subscription[T]) {
	subs := []*Subscription[T]{initial}
	for {
		select {
		case sub := <-h.adds:
			subs = append(subs, sub)
		case v := <-h.publish:
			live := subs[:0]
			for _, sub := range subs {
				select {
				case sub.ch <- v:
					live = append(live, sub)
				default:
					// Queue full: the subscriber stopped draining.
					close(sub.ch)
				}
			}
			subs = live
		case <-h.done:
			for _, sub := range subs {
				close(sub.ch)
			}
			return
		}
	}
}
