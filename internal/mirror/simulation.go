package mirror

import (
	"context"
	"time"
)

// DefaultSimulationInterval matches the original 5-second flavor tick.
const DefaultSimulationInterval = 5 * time.Second

const (
	spatialWisdomStep        = 0.1
	communityConnectionsStep = 0.05
	wisdomSharingStep        = 0.02
)

// advanceSimulation is the per-tick transition: the counters grow as a pure
// function of elapsed ticks and the healing total is rescored.
type advanceSimulation struct{}

func (advanceSimulation) apply(state State) State {
	next := cloneState(state)
	next.Healing.SpatialWisdom += spatialWisdomStep
	next.Healing.CommunityConnections += communityConnectionsStep
	next.Healing.WisdomSharing += wisdomSharingStep

	var points float64
	if next.CurrentPlayer != nil {
		points = next.CurrentPlayer.Consciousness
	}
	next.Healing.TotalHealing = HealingImpact(points, next.Healing)
	return next
}

// RunSimulation drives the cosmetic consciousness growth until the context
// is cancelled. It must be stopped on teardown; the returned error is the
// context's.
func RunSimulation(ctx context.Context, m *Mirror, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSimulationInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Dispatch(advanceSimulation{})
		}
	}
}
