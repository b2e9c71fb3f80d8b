package mirror

import "time"

// ConsciousnessMetrics is the view layer's read-side projection of the
// mirror. It holds no state of its own.
type ConsciousnessMetrics struct {
	Level               int       `json:"level"`
	Points              float64   `json:"points"`
	SpatialAwareness    float64   `json:"spatialAwareness"`
	CommunityConnection float64   `json:"communityConnection"`
	WisdomSharing       float64   `json:"wisdomSharing"`
	HealingImpact       float64   `json:"healingImpact"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

// Metrics projects the current state into display metrics.
func Metrics(state State) ConsciousnessMetrics {
	if state.CurrentPlayer == nil {
		return ConsciousnessMetrics{LastUpdated: time.Now()}
	}
	return ConsciousnessMetrics{
		Level:               state.CurrentPlayer.Level,
		Points:              state.CurrentPlayer.Consciousness,
		SpatialAwareness:    state.Healing.SpatialWisdom,
		CommunityConnection: state.Healing.CommunityConnections,
		WisdomSharing:       state.CurrentPlayer.Consciousness * 0.1,
		HealingImpact:       state.Healing.TotalHealing,
		LastUpdated:         time.Now(),
	}
}

// HealingImpact scores overall wellbeing from points and the simulated
// counters.
func HealingImpact(points float64, healing HealingMetrics) float64 {
	return points*0.1 + healing.CommunityConnections*0.5 + healing.SpatialWisdom*0.3
}

// SacredPrinciple is one of the four design tenets surfaced in the UI, with
// a live validation flag derived from state.
type SacredPrinciple struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Validation  bool    `json:"validation"`
	Impact      float64 `json:"impact"`
}

// Principles evaluates the four tenets against the current state.
func Principles(state State) []SacredPrinciple {
	var points float64
	if state.CurrentPlayer != nil {
		points = state.CurrentPlayer.Consciousness
	}
	return []SacredPrinciple{
		{
			Name:        "consciousness-first",
			Description: "Every action serves consciousness development",
			Validation:  points > 0,
			Impact:      points,
		},
		{
			Name:        "community-healing",
			Description: "All work promotes collective healing",
			Validation:  state.Healing.TotalHealing > 0,
			Impact:      state.Healing.TotalHealing,
		},
		{
			Name:        "spatial-wisdom",
			Description: "Spatial awareness in all development",
			Validation:  state.Healing.SpatialWisdom > 0,
			Impact:      state.Healing.SpatialWisdom,
		},
		{
			Name:        "infinite-collaboration",
			Description: "Infinite perspective in all decisions",
			Validation:  state.Healing.CommunityConnections > 0,
			Impact:      state.Healing.CommunityConnections,
		},
	}
}
