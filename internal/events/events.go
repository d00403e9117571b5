package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ifor-lux/luxconsole/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventListingRefreshed EventType = "listing_refreshed" // Listing replaced by an authoritative fetch
	EventRefreshSkipped   EventType = "refresh_skipped"   // Scheduled tick suppressed by user activity
	EventMutationStarted  EventType = "mutation_started"  // Upload/delete/rename/move/mkdir/edit began
	EventMutationSettled  EventType = "mutation_settled"  // Mutation finished (success or failure)
	EventPathChanged      EventType = "path_changed"      // Session navigated to a different directory
	EventError            EventType = "error"             // Classified operation failure
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// ListingEvent reports a replaced listing after a successful refresh.
type ListingEvent struct {
	BaseEvent
	Path      string // slash-joined directory path, "" = root
	ItemCount int    // entries after placeholder filtering
	Forced    bool   // true for triggered refreshes (navigation, post-mutation)
}

// MutationEvent reports the lifecycle of a mutation operation.
type MutationEvent struct {
	BaseEvent
	Op    string // "upload", "delete", "rename", "move", "mkdir", "edit"
	Name  string // item the operation targets
	Error error  // nil unless the operation settled with a failure
}

// PathEvent reports a navigation.
type PathEvent struct {
	BaseEvent
	Path string
}

// ErrorEvent reports a surfaced operation failure.
type ErrorEvent struct {
	BaseEvent
	Op      string
	Message string
}

// Bus manages event subscriptions and publishing. Publishing never blocks;
// events to a full subscriber channel are dropped and counted.
type Bus struct {
	subscribers map[EventType][]chan Event
	all         []chan Event
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
	dropped     atomic.Int64
}

// NewBus creates a new event bus with the specified per-subscriber buffer.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type.
func (b *Bus) Subscribe(eventType EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events.
func (b *Bus) SubscribeAll() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.all = append(b.all, ch)
	return ch
}

// Publish sends an event to all subscribers without blocking.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
	for _, ch := range b.all {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// PublishListing publishes a listing-refreshed event.
func (b *Bus) PublishListing(path string, itemCount int, forced bool) {
	b.Publish(ListingEvent{
		BaseEvent: BaseEvent{EventType: EventListingRefreshed, Time: time.Now()},
		Path:      path,
		ItemCount: itemCount,
		Forced:    forced,
	})
}

// PublishMutation publishes a mutation lifecycle event.
func (b *Bus) PublishMutation(eventType EventType, op, name string, err error) {
	b.Publish(MutationEvent{
		BaseEvent: BaseEvent{EventType: eventType, Time: time.Now()},
		Op:        op,
		Name:      name,
		Error:     err,
	})
}

// PublishError publishes a surfaced failure.
func (b *Bus) PublishError(op, message string) {
	b.Publish(ErrorEvent{
		BaseEvent: BaseEvent{EventType: EventError, Time: time.Now()},
		Op:        op,
		Message:   message,
	})
}

// DroppedEventCount returns the number of events dropped due to full buffers.
func (b *Bus) DroppedEventCount() int64 {
	return b.dropped.Load()
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range b.all {
		close(ch)
	}
	b.subscribers = make(map[EventType][]chan Event)
	b.all = nil
}
