package server

import "time"

// EventType identifies an entry in the game event log.
type EventType string

const (
	EventTerritoryClaimed    EventType = "territory-claimed"
	EventConsciousnessGained EventType = "consciousness-gained"
	EventHealingZoneCreated  EventType = "healing-zone-created"
	EventPlayerJoined        EventType = "player-joined"
	EventPlayerLeft          EventType = "player-left"
)

// Event is one entry in the registry's append-only log. ConsciousnessImpact
// is informational colour for dashboards; it never feeds back into the
// accumulator.
type Event struct {
	Type                EventType `json:"type"`
	Data                any       `json:"data"`
	Timestamp           time.Time `json:"timestamp"`
	ConsciousnessImpact float64   `json:"consciousnessImpact"`
}

// EventImpact reports the fixed consciousness impact recorded per event type.
func EventImpact(t EventType) float64 {
	switch t {
	case EventPlayerJoined:
		return 10
	case EventPlayerLeft:
		return -5
	case EventTerritoryClaimed:
		return 25
	case EventConsciousnessGained:
		return 15
	case EventHealingZoneCreated:
		return 50
	default:
		return 0
	}
}

// appendEventLocked records an event and enforces the write-side retention
// cap so the log cannot grow without bound between restarts.
func (r *Registry) appendEventLocked(t EventType, data any) {
	r.events = append(r.events, Event{
		Type:                t,
		Data:                data,
		Timestamp:           time.Now(),
		ConsciousnessImpact: EventImpact(t),
	})
	if overflow := len(r.events) - r.retention; overflow > 0 {
		copy(r.events, r.events[overflow:])
		r.events = r.events[:len(r.events)-overflow]
	}
}

// recentEventsLocked copies out at most eventReadLimit of the newest entries.
func (r *Registry) recentEventsLocked() []Event {
	start := 0
	if len(r.events) > eventReadLimit {
		start = len(r.events) - eventReadLimit
	}
	events := make([]Event, len(r.events)-start)
	copy(events, r.events[start:])
	return events
}
