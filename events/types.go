package events

import (
	"time"

	"github.com/lixenwraith/cardfx/vmath"
)

// EventType represents the type of card animation event
type EventType int

const (
	// EventPulseStarted signals a burst flourish and raised pulse flag
	// Trigger: burst interval tick passing its probability roll
	// Consumer: hosts (flash), audio | Payload: PulsePayload
	EventPulseStarted EventType = iota

	// EventPulseEnded signals the pulse flag cleared after its visible duration
	// Trigger: burst expiry timeout or cancel | Payload: nil
	EventPulseEnded

	// EventCardMounted signals a card attached and started its frame loop
	// Payload: nil
	EventCardMounted

	// EventCardUnmounted signals teardown completed
	// Payload: nil
	EventCardUnmounted
)

// String returns the event name for logs
func (t EventType) String() string {
	switch t {
	case EventPulseStarted:
		return "pulse_started"
	case EventPulseEnded:
		return "pulse_ended"
	case EventCardMounted:
		return "card_mounted"
	case EventCardUnmounted:
		return "card_unmounted"
	default:
		return "unknown"
	}
}

// CardEvent is the unit routed through a Bus
type CardEvent struct {
	Type    EventType
	Card    string // instance id
	Time    time.Time
	Payload any
}

// PulsePayload describes a burst
type PulsePayload struct {
	Center   vmath.Point
	Radius   float64
	Duration time.Duration
	Woken    int // bolts force-activated
}
