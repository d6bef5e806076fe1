package sse

import (
	"sync"
	"sync/atomic"
)

// Wildcard subscribers receive every published event regardless of recipient.
const Wildcard = "*"

const defaultBuffer = 16

// Event is a notification pushed to the subscribers of one recipient.
type Event struct {
	RecipientID string
	Type        string
	Data        interface{}
}

// Hub fans events out to in-process subscribers keyed by recipient ID.
// Delivery never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	buffer      int
	dropped     atomic.Int64
}

// NewHub returns a hub whose subscriber channels hold buffer events.
// A non-positive buffer selects the default.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers a channel for recipientID. The returned cancel func
// unregisters and closes the channel; calling it twice is safe.
func (h *Hub) Subscribe(recipientID string) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	if h.subscribers[recipientID] == nil {
		h.subscribers[recipientID] = make(map[chan Event]struct{})
	}
	h.subscribers[recipientID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[recipientID], ch)
			if len(h.subscribers[recipientID]) == 0 {
				delete(h.subscribers, recipientID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers event to the subscribers of event.RecipientID and to
// wildcard subscribers.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.subscribers[event.RecipientID], event)
	if event.RecipientID != Wildcard {
		h.deliver(h.subscribers[Wildcard], event)
	}
}

func (h *Hub) deliver(subs map[chan Event]struct{}, event Event) {
	for ch := range subs {
		select {
		case ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
}

// SubscriberCount returns the number of live subscriptions for recipientID.
func (h *Hub) SubscriberCount(recipientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[recipientID])
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
