package gameplay

import (
	"context"

	"sacred-steps/server/logging"
)

const (
	// EventTerritoryClaimed is emitted when a claim succeeds.
	EventTerritoryClaimed logging.EventType = "gameplay.territory_claimed"
	// EventConsciousnessGained is emitted after every consciousness update.
	EventConsciousnessGained logging.EventType = "gameplay.consciousness_gained"
	// EventHealingZoneCreated is emitted for the one-shot healing-zone flip.
	EventHealingZoneCreated logging.EventType = "gameplay.healing_zone_created"
)

// TerritoryClaimedPayload captures a successful claim.
type TerritoryClaimedPayload struct {
	TerritoryID string  `json:"territoryId"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Remaining   float64 `json:"remaining"`
}

// ConsciousnessGainedPayload captures a consciousness transition.
type ConsciousnessGainedPayload struct {
	Delta         float64 `json:"delta"`
	Consciousness float64 `json:"consciousness"`
	Level         int     `json:"level"`
}

// HealingZoneCreatedPayload captures the territory flipped by the threshold
// crossing.
type HealingZoneCreatedPayload struct {
	TerritoryID  string  `json:"territoryId"`
	HealingPower float64 `json:"healingPower"`
}

// TerritoryClaimed publishes a claim event.
func TerritoryClaimed(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload TerritoryClaimedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTerritoryClaimed,
		Actor:    actor,
		Targets:  []logging.EntityRef{{ID: payload.TerritoryID, Kind: logging.EntityKindTerritory}},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// ConsciousnessGained publishes a consciousness transition event.
func ConsciousnessGained(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload ConsciousnessGainedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventConsciousnessGained,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// HealingZoneCreated publishes the healing-zone flip event.
func HealingZoneCreated(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload HealingZoneCreatedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHealingZoneCreated,
		Actor:    actor,
		Targets:  []logging.EntityRef{{ID: payload.TerritoryID, Kind: logging.EntityKindTerritory}},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}
