package server

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestLevelLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry(RegistryConfig{})
		r.Join("session-1", "Prop")

		var total float64
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			delta := rapid.Float64Range(-500, 500).Draw(t, "delta")
			got, ok := r.UpdateConsciousness("session-1", delta)
			if !ok {
				t.Fatalf("update failed for live player")
			}
			total += delta
			if math.Abs(got-total) > 1e-9 {
				t.Fatalf("total drifted: %v vs %v", got, total)
			}

			player := r.Snapshot().Players[0]
			want := int(math.Floor(player.Consciousness/100)) + 1
			if player.Level != want {
				t.Fatalf("level %d does not follow consciousness %v (want %d)",
					player.Level, player.Consciousness, want)
			}
		}
	})
}

func TestClaimAccounting(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry(RegistryConfig{})
		r.Join("session-1", "Prop")

		seen := make(map[string]bool)
		claims := 0
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before := r.Snapshot().Players[0].Consciousness

			if rapid.Bool().Draw(t, "earn") {
				delta := rapid.Float64Range(0, 200).Draw(t, "delta")
				r.UpdateConsciousness("session-1", delta)
				continue
			}

			territory, ok := r.ClaimTerritory("session-1", Territory{Radius: 50})
			after := r.Snapshot().Players[0].Consciousness

			if before >= 50 {
				if !ok {
					t.Fatalf("claim rejected at %v", before)
				}
				if math.Abs(before-after-50) > 1e-9 {
					t.Fatalf("claim spent %v, want 50", before-after)
				}
				if seen[territory.ID] {
					t.Fatalf("territory id %q reused", territory.ID)
				}
				seen[territory.ID] = true
				claims++
			} else {
				if ok {
					t.Fatalf("claim accepted at %v", before)
				}
				if before != after {
					t.Fatalf("rejected claim changed consciousness: %v vs %v", before, after)
				}
			}
		}

		snapshot := r.Snapshot()
		if len(snapshot.Territories) != claims {
			t.Fatalf("registry holds %d territories, want %d", len(snapshot.Territories), claims)
		}
		if len(snapshot.Players[0].Territories) != claims {
			t.Fatalf("player lists %d territories, want %d", len(snapshot.Players[0].Territories), claims)
		}
	})
}
