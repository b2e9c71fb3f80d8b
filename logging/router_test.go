package logging

import (
	"context"
	"testing"
	"time"
)

type recordingSink struct {
	events chan Event
}

func newRecordingSink() *recordingSink {
	return &recordingSink{events: make(chan Event, 64)}
}

func (s *recordingSink) Write(event Event) error {
	s.events <- event
	return nil
}

func (s *recordingSink) Close(context.Context) error { return nil }

func (s *recordingSink) next(t *testing.T) Event {
	t.Helper()
	select {
	case event := <-s.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sink delivery")
		return Event{}
	}
}

func newTestRouter(t *testing.T, cfg Config, sink Sink) *Router {
	t.Helper()
	router, err := NewRouter(nil, cfg, []NamedSink{{Name: "test", Sink: sink}})
	if err != nil {
		t.Fatalf("failed to construct router: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
	})
	return router
}

func TestRouterDeliversToSink(t *testing.T) {
	sink := newRecordingSink()
	router := newTestRouter(t, DefaultConfig(), sink)

	router.Publish(context.Background(), Event{
		Type:     "gameplay.territory_claimed",
		Actor:    EntityRef{ID: "player-1", Kind: EntityKindPlayer},
		Severity: SeverityInfo,
	})

	event := sink.next(t)
	if event.Type != "gameplay.territory_claimed" {
		t.Fatalf("unexpected event type %q", event.Type)
	}
	if event.Time.IsZero() {
		t.Fatal("router should stamp events with the clock")
	}
	if got := router.Stats().EventsTotal; got != 1 {
		t.Fatalf("unexpected events total %d", got)
	}
}

func TestRouterSeverityFilter(t *testing.T) {
	sink := newRecordingSink()
	cfg := DefaultConfig()
	cfg.MinimumSeverity = SeverityWarn
	router := newTestRouter(t, cfg, sink)

	router.Publish(context.Background(), Event{Type: "a", Severity: SeverityDebug})
	router.Publish(context.Background(), Event{Type: "b", Severity: SeverityError})

	event := sink.next(t)
	if event.Type != "b" {
		t.Fatalf("severity filter passed %q", event.Type)
	}
}

func TestRouterMergesConfiguredFields(t *testing.T) {
	sink := newRecordingSink()
	cfg := DefaultConfig()
	cfg.Fields = map[string]any{"service": "sacred-steps"}
	router := newTestRouter(t, cfg, sink)

	router.Publish(context.Background(), Event{Type: "a", Severity: SeverityInfo})

	event := sink.next(t)
	if event.Extra["service"] != "sacred-steps" {
		t.Fatalf("configured fields missing: %+v", event.Extra)
	}
}

func TestRouterIgnoresUntypedEvents(t *testing.T) {
	sink := newRecordingSink()
	router := newTestRouter(t, DefaultConfig(), sink)

	router.Publish(context.Background(), Event{Severity: SeverityError})
	router.Publish(context.Background(), Event{Type: "typed", Severity: SeverityInfo})

	if event := sink.next(t); event.Type != "typed" {
		t.Fatalf("untyped event was delivered: %+v", event)
	}
}

func TestRouterPublishAfterClose(t *testing.T) {
	sink := newRecordingSink()
	router, err := NewRouter(nil, DefaultConfig(), []NamedSink{{Name: "test", Sink: sink}})
	if err != nil {
		t.Fatalf("failed to construct router: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := router.Close(ctx); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	router.Publish(context.Background(), Event{Type: "late", Severity: SeverityInfo})
	if got := router.Stats().EventsTotal; got != 0 {
		t.Fatalf("closed router accepted events: %d", got)
	}
}

func TestRouterUsesProvidedClock(t *testing.T) {
	sink := newRecordingSink()
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	router, err := NewRouter(ClockFunc(func() time.Time { return fixed }), DefaultConfig(),
		[]NamedSink{{Name: "test", Sink: sink}})
	if err != nil {
		t.Fatalf("failed to construct router: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		router.Close(ctx)
	})

	router.Publish(context.Background(), Event{Type: "a", Severity: SeverityInfo})
	if event := sink.next(t); !event.Time.Equal(fixed) {
		t.Fatalf("unexpected event time %v", event.Time)
	}
}
