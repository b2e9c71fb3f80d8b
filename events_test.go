package server

import "testing"

func TestEventImpacts(t *testing.T) {
	tests := []struct {
		eventType EventType
		impact    float64
	}{
		{EventPlayerJoined, 10},
		{EventPlayerLeft, -5},
		{EventTerritoryClaimed, 25},
		{EventConsciousnessGained, 15},
		{EventHealingZoneCreated, 50},
		{EventType("unknown"), 0},
	}
	for _, tt := range tests {
		if got := EventImpact(tt.eventType); got != tt.impact {
			t.Fatalf("%s: impact %v, want %v", tt.eventType, got, tt.impact)
		}
	}
}

func TestEventWriteRetention(t *testing.T) {
	r := NewRegistry(RegistryConfig{EventRetention: 10})
	r.mu.Lock()
	for i := 0; i < 25; i++ {
		r.appendEventLocked(EventTerritoryClaimed, i)
	}
	retained := len(r.events)
	oldest := r.events[0].Data
	r.mu.Unlock()

	if retained != 10 {
		t.Fatalf("expected 10 retained events, got %d", retained)
	}
	if oldest != 15 {
		t.Fatalf("expected oldest surviving entry 15, got %v", oldest)
	}
}

func TestEventReadLimit(t *testing.T) {
	r := NewRegistry(RegistryConfig{})
	r.mu.Lock()
	for i := 0; i < eventReadLimit*3; i++ {
		r.appendEventLocked(EventTerritoryClaimed, i)
	}
	events := r.recentEventsLocked()
	r.mu.Unlock()

	if len(events) != eventReadLimit {
		t.Fatalf("expected %d events, got %d", eventReadLimit, len(events))
	}
	if events[len(events)-1].Data != eventReadLimit*3-1 {
		t.Fatalf("expected the newest entry last, got %v", events[len(events)-1].Data)
	}
}

func TestEventReadBelowLimit(t *testing.T) {
	r := NewRegistry(RegistryConfig{})
	r.mu.Lock()
	r.appendEventLocked(EventTerritoryClaimed, "only")
	events := r.recentEventsLocked()
	r.mu.Unlock()

	if len(events) != 1 || events[0].Data != "only" {
		t.Fatalf("unexpected events %+v", events)
	}
}
