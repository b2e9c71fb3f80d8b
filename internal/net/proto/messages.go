package proto

import (
	"encoding/json"
	"fmt"
)

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Client event identifiers.
const (
	EventJoinGame            = "join-game"
	EventUpdatePosition      = "update-position"
	EventClaimTerritory      = "claim-territory"
	EventUpdateConsciousness = "update-consciousness"
	EventLeaveGame           = "leave-game"
)

// Server event identifiers.
const (
	EventPlayerJoined          = "player-joined"
	EventPlayerPositionUpdated = "player-position-updated"
	EventPlayerLeft            = "player-left"
	EventTerritoryClaimed      = "territory-claimed"
	EventConsciousnessGained   = "consciousness-gained"
	EventHealingZoneCreated    = "healing-zone-created"
)

// Envelope is the single frame shape used in both directions: an event name
// plus the event's payload, still raw on the inbound path so the dispatcher
// can pick the concrete type.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode renders an outbound frame for the given event and payload.
func Encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// Decode parses an inbound frame into an envelope. The payload stays raw.
func Decode(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return env, err
	}
	if env.Event == "" {
		return env, fmt.Errorf("frame missing event name")
	}
	return env, nil
}

// DecodeData unmarshals an envelope payload into the caller's type.
func DecodeData(env Envelope, out any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%s frame missing data", env.Event)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", env.Event, err)
	}
	return nil
}

// Position is a wire-level coordinate pair.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// JoinGame carries the display name chosen by the joining client.
type JoinGame struct {
	PlayerID string `json:"playerId,omitempty"`
}

// UpdatePosition carries a client's self-reported coordinates.
type UpdatePosition struct {
	Position
}

// ClaimTerritory carries a territory claim. The server assigns the id, owner,
// and creation time; the rest of the record is taken as sent.
type ClaimTerritory struct {
	Position      Position `json:"position"`
	Radius        float64  `json:"radius"`
	Consciousness float64  `json:"consciousness"`
	HealingPower  float64  `json:"healingPower"`
	Color         string   `json:"color,omitempty"`
}

// UpdateConsciousness carries the increment a client reports.
type UpdateConsciousness struct {
	Consciousness float64 `json:"consciousness"`
}

// PositionUpdate tells other clients where a player moved.
type PositionUpdate struct {
	PlayerID string   `json:"playerId"`
	Position Position `json:"position"`
}

// ConsciousnessGained announces a player's new absolute total.
type ConsciousnessGained struct {
	PlayerID      string  `json:"playerId"`
	Consciousness float64 `json:"consciousness"`
}

// HealingZoneCreated announces the one-shot healing-zone conversion.
type HealingZoneCreated struct {
	TerritoryID  string  `json:"territoryId"`
	HealingPower float64 `json:"healingPower"`
}
