package server

import (
	"math"
	"time"
)

// Position is a latitude/longitude pair in degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Player is the authoritative record for one connected session. The ID is the
// session identifier assigned by the transport at upgrade time and stays
// stable for the life of the connection.
type Player struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Position      Position  `json:"position"`
	Consciousness float64   `json:"consciousness"`
	Level         int       `json:"level"`
	Territories   []string  `json:"territories"`
	Steps         int       `json:"steps"`
	HealingImpact float64   `json:"healingImpact"`
	LastActive    time.Time `json:"lastActive"`
}

// Territory is a claimed map region. PlayerID and CreatedAt are assigned by
// the registry at claim time and never change afterwards. Consciousness is a
// snapshot of the claim payload used for client-side colour coding; it is not
// re-synced when the owner's score moves.
type Territory struct {
	ID            string    `json:"id"`
	PlayerID      string    `json:"playerId"`
	Position      Position  `json:"position"`
	Radius        float64   `json:"radius"`
	Consciousness float64   `json:"consciousness"`
	HealingPower  float64   `json:"healingPower"`
	Color         string    `json:"color,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	IsHealingZone bool      `json:"isHealingZone"`
}

// LevelFor derives the display level from a consciousness total. Level is
// never stored independently of its source.
func LevelFor(consciousness float64) int {
	return int(math.Floor(consciousness/100)) + 1
}

func clonePlayer(p *Player) Player {
	copied := *p
	if p.Territories != nil {
		copied.Territories = append([]string(nil), p.Territories...)
	}
	return copied
}
