package events

import (
	"sync"

	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/audio"
)

// Event is a marker interface for all application events
type Event interface {
	isEvent()
}

// Base implementation for all events
type baseEvent struct{}

func (baseEvent) isEvent() {}

// SelectionChanged is fired when the active device for a direction changes
type SelectionChanged struct {
	baseEvent
	Direction audio.Direction
	DeviceID  int  // -1 when the selection was cleared
	HasDevice bool // false when the selection was cleared
}

// VolumeChanged is fired when the stored volume level for a direction changes
type VolumeChanged struct {
	baseEvent
	Direction audio.Direction
	Level     float64
}

// DevicesRefreshed is fired after a fresh device enumeration
type DevicesRefreshed struct {
	baseEvent
	Direction audio.Direction
	Devices   []audio.Device
}

// AspectRatioChanged is fired when the user confirms a new aspect ratio
type AspectRatioChanged struct {
	baseEvent
	Ratio string
}

// WindowResizeRequested is fired after an aspect-ratio change is confirmed.
// It carries no payload; observers read the persisted preference themselves.
type WindowResizeRequested struct {
	baseEvent
}

// Bus provides simple event publish/subscribe
type Bus struct {
	mu          sync.Mutex
	subscribers []chan Event
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe creates a new event channel for receiving events
func (b *Bus) Subscribe(bufferSize int) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Publish sends an event to all subscribers (non-blocking)
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Skip slow subscribers - the controller must never stall on an observer
		}
	}
}

// Close closes all subscriber channels so their consumer loops can exit.
// Publish after Close is a programming error.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
