package service

import (
	"sync"
	"time"
)

// EventType categorizes bus events
type EventType string

const (
	EventJobStarted    EventType = "job_started"
	EventJobCompleted  EventType = "job_completed"
	EventJobFailed     EventType = "job_failed"
	EventRecordCreated EventType = "record_created"
	EventRecordUpdated EventType = "record_updated"
	EventRecordDeleted EventType = "record_deleted"
)

// Event is a notification published on the bus
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// EventBus fans events out to subscribers. Slow subscribers drop
// events rather than block publishers.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan Event
}

// NewEventBus creates an event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe returns a channel receiving all future events
func (b *EventBus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Event, 64)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber channel and closes it
func (b *EventBus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (b *EventBus) Publish(eventType EventType, data map[string]any) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
