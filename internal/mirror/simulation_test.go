package mirror

import (
	"context"
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAdvanceSimulationStep(t *testing.T) {
	state := Reduce(NewState(), SetPlayer{Player: testPlayer(100)})

	state = Reduce(state, advanceSimulation{})
	if !almostEqual(state.Healing.SpatialWisdom, 0.1) {
		t.Fatalf("unexpected spatial wisdom %v", state.Healing.SpatialWisdom)
	}
	if !almostEqual(state.Healing.CommunityConnections, 0.05) {
		t.Fatalf("unexpected community connections %v", state.Healing.CommunityConnections)
	}
	if !almostEqual(state.Healing.WisdomSharing, 0.02) {
		t.Fatalf("unexpected wisdom sharing %v", state.Healing.WisdomSharing)
	}

	want := 100*0.1 + 0.05*0.5 + 0.1*0.3
	if !almostEqual(state.Healing.TotalHealing, want) {
		t.Fatalf("unexpected healing total %v, want %v", state.Healing.TotalHealing, want)
	}
}

func TestAdvanceSimulationAccumulates(t *testing.T) {
	state := NewState()
	for i := 0; i < 10; i++ {
		state = Reduce(state, advanceSimulation{})
	}
	if !almostEqual(state.Healing.SpatialWisdom, 1.0) {
		t.Fatalf("unexpected spatial wisdom %v", state.Healing.SpatialWisdom)
	}
	if !almostEqual(state.Healing.CommunityConnections, 0.5) {
		t.Fatalf("unexpected community connections %v", state.Healing.CommunityConnections)
	}
}

func TestRunSimulationStopsOnCancel(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- RunSimulation(ctx, m, 5*time.Millisecond)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("simulation did not stop on cancel")
	}

	if m.State().Healing.SpatialWisdom == 0 {
		t.Fatal("simulation never ticked")
	}
}
