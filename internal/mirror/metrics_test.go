package mirror

import "testing"

func TestMetricsWithoutPlayer(t *testing.T) {
	metrics := Metrics(NewState())
	if metrics.Level != 0 || metrics.Points != 0 {
		t.Fatalf("expected zero metrics, got %+v", metrics)
	}
	if metrics.LastUpdated.IsZero() {
		t.Fatal("expected a timestamp")
	}
}

func TestMetricsProjection(t *testing.T) {
	state := Reduce(NewState(), SetPlayer{Player: testPlayer(250)})
	state.Healing = HealingMetrics{
		TotalHealing:         40,
		CommunityConnections: 2,
		SpatialWisdom:        3,
	}

	metrics := Metrics(state)
	if metrics.Level != 3 {
		t.Fatalf("unexpected level %d", metrics.Level)
	}
	if metrics.Points != 250 {
		t.Fatalf("unexpected points %v", metrics.Points)
	}
	if metrics.WisdomSharing != 25 {
		t.Fatalf("unexpected wisdom sharing %v", metrics.WisdomSharing)
	}
	if metrics.SpatialAwareness != 3 || metrics.CommunityConnection != 2 {
		t.Fatalf("unexpected simulated counters: %+v", metrics)
	}
	if metrics.HealingImpact != 40 {
		t.Fatalf("unexpected healing impact %v", metrics.HealingImpact)
	}
}

func TestHealingImpactFormula(t *testing.T) {
	healing := HealingMetrics{CommunityConnections: 4, SpatialWisdom: 10}
	if got := HealingImpact(100, healing); got != 100*0.1+4*0.5+10*0.3 {
		t.Fatalf("unexpected healing impact %v", got)
	}
}

func TestPrinciplesValidation(t *testing.T) {
	principles := Principles(NewState())
	if len(principles) != 4 {
		t.Fatalf("expected four principles, got %d", len(principles))
	}
	for _, p := range principles {
		if p.Validation {
			t.Fatalf("principle %q should not validate on empty state", p.Name)
		}
	}

	state := Reduce(NewState(), SetPlayer{Player: testPlayer(10)})
	state.Healing = HealingMetrics{TotalHealing: 1, CommunityConnections: 1, SpatialWisdom: 1}
	for _, p := range Principles(state) {
		if !p.Validation {
			t.Fatalf("principle %q should validate, got %+v", p.Name, p)
		}
	}
}
