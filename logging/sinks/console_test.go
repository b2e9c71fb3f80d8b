package sinks

import (
	"bytes"
	"strings"
	"testing"

	"sacred-steps/server/logging"
)

func TestConsoleSinkWrite(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{})

	err := sink.Write(logging.Event{
		Type:     "gameplay.territory_claimed",
		Actor:    logging.EntityRef{ID: "player-1", Kind: logging.EntityKindPlayer},
		Targets:  []logging.EntityRef{{ID: "territory-1", Kind: logging.EntityKindTerritory}},
		Severity: logging.SeverityInfo,
		Payload:  map[string]float64{"remaining": 10},
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	line := buf.String()
	for _, want := range []string{
		"[gameplay.territory_claimed]",
		"actor=player:player-1",
		"severity=info",
		"targets=territory:territory-1",
		`payload={"remaining":10}`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestConsoleSinkColor(t *testing.T) {
	var buf bytes.Buffer
	sink := NewConsoleSink(&buf, logging.ConsoleConfig{UseColor: true})

	if err := sink.Write(logging.Event{Type: "a", Severity: logging.SeverityError}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[31m") {
		t.Fatalf("expected color escape in %q", buf.String())
	}
}

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()

	if err := sink.Write(logging.Event{Type: "a"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := sink.Write(logging.Event{Type: "b"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	events := sink.Events()
	if len(events) != 2 || events[0].Type != "a" || events[1].Type != "b" {
		t.Fatalf("unexpected events %+v", events)
	}

	// The returned slice is a copy.
	events[0].Type = "mutated"
	if sink.Events()[0].Type != "a" {
		t.Fatal("Events leaked internal storage")
	}

	sink.Reset()
	if len(sink.Events()) != 0 {
		t.Fatal("reset did not clear events")
	}
}
