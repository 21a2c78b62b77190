// Package bus carries the process-wide token-updated signal. The channel
// is a pure invalidation signal: events carry no payload and subscribers
// re-read current state themselves. Delivery is coalescing at-least-once
// per live subscriber; there is no replay for late joiners, which must
// poll current state once at mount.
package bus

import "sync"

// Subscription is one subscriber's handle on the bus.
type Subscription struct {
	// C receives a signal after every store mutation. Signals may be
	// coalesced while the subscriber is busy.
	C <-chan struct{}

	bus  *Broadcaster
	ch   chan struct{}
	once sync.Once
}

// Unsubscribe detaches the subscription. Idempotent; the channel is
// closed so range loops terminate.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s)
		s.bus.mu.Unlock()
		close(s.ch)
	})
}

// Broadcaster is the token-updated publish/subscribe channel.
// Implements domain.Broadcaster.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewBroadcaster creates an empty bus.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan struct{}, 1)
	sub := &Subscription{C: ch, ch: ch, bus: b}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Broadcast signals every live subscriber. Never blocks: a subscriber
// with a pending signal keeps exactly one, which is sufficient for an
// invalidation channel.
func (b *Broadcaster) Broadcast() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}
