// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lufia 2 Tracker Contributors

package tracker

import (
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Handler receives events synchronously, in emission order. Handlers must
// not call back into the publishing Store.
type Handler func(Event)

// Broadcaster distributes events to subscribers by stream pattern.
//
// Patterns use glob syntax with ':' as the segment separator, so
// "location:*" matches every location stream and "**" matches everything.
// Delivery is synchronous: Broadcast invokes every matching handler before
// returning, in subscription order.
type Broadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id      int
	pattern glob.Glob
	fn      Handler
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a handler for streams matching pattern and returns a
// subscription id for Unsubscribe.
func (b *Broadcaster) Subscribe(pattern string, fn Handler) (int, error) {
	g, err := glob.Compile(pattern, ':')
	if err != nil {
		return 0, oops.Code("PATTERN_INVALID").With("pattern", pattern).Wrap(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, subscription{id: b.nextID, pattern: g, fn: fn})
	return b.nextID, nil
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Broadcast delivers an event to every subscriber whose pattern matches the
// event's stream.
func (b *Broadcaster) Broadcast(event Event) {
	b.mu.RLock()
	matched := make([]Handler, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.pattern.Match(event.Stream) {
			matched = append(matched, sub.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range matched {
		fn(event)
	}
}
