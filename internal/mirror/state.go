// Package mirror maintains a client-side replica of the game state, rebuilt
// purely from channel events and local optimistic dispatch. It never reads
// the registry directly.
package mirror

import (
	"fmt"
	"sync"
	"time"

	"sacred-steps/server"
)

const (
	eventWindow = 50

	claimCost        = 50.0
	healingThreshold = 150.0
	healingPowerRate = 0.1

	colorHealing = "#22c55e"
	colorStrong  = "#3b82f6"
	colorBase    = "#8b5cf6"
)

// HealingMetrics aggregates the cosmetic wellbeing counters maintained by the
// local simulation ticker, never by the server.
type HealingMetrics struct {
	TotalHealing         float64 `json:"totalHealing"`
	CommunityConnections float64 `json:"communityConnections"`
	SpatialWisdom        float64 `json:"spatialWisdom"`
	WisdomSharing        float64 `json:"wisdomSharing"`
}

// GameEvent is the mirror's view of one observed event, scored for display.
type GameEvent struct {
	Type                string    `json:"type"`
	Data                any       `json:"data"`
	Timestamp           time.Time `json:"timestamp"`
	ConsciousnessImpact float64   `json:"consciousnessImpact"`
}

// Tier buckets a consciousness total for display.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// State is the full mirror snapshot. Reducers treat it as immutable: every
// transition copies what it changes.
type State struct {
	Players       map[string]server.Player
	Territories   []server.Territory
	CurrentPlayer *server.Player
	Connected     bool
	Level         Tier
	Healing       HealingMetrics
	Events        []GameEvent

	// pendingClaims holds the ids of optimistic territories still waiting
	// for the server echo, oldest first.
	pendingClaims []string
}

// NewState returns the empty pre-connection state.
func NewState() State {
	return State{
		Players: make(map[string]server.Player),
		Level:   TierLow,
	}
}

// Action is one mirror transition. Implementations are pure: they derive a
// new state and leave the input untouched.
type Action interface {
	apply(State) State
}

// Reduce applies a single action.
func Reduce(state State, action Action) State {
	if action == nil {
		return state
	}
	return action.apply(state)
}

// TierFor buckets a consciousness total.
func TierFor(consciousness float64) Tier {
	switch {
	case consciousness > 200:
		return TierHigh
	case consciousness > 100:
		return TierMedium
	default:
		return TierLow
	}
}

func cloneState(state State) State {
	cloned := state
	cloned.Players = make(map[string]server.Player, len(state.Players))
	for id, player := range state.Players {
		cloned.Players[id] = player
	}
	cloned.Territories = append([]server.Territory(nil), state.Territories...)
	cloned.Events = append([]GameEvent(nil), state.Events...)
	cloned.pendingClaims = append([]string(nil), state.pendingClaims...)
	if state.CurrentPlayer != nil {
		player := *state.CurrentPlayer
		player.Territories = append([]string(nil), state.CurrentPlayer.Territories...)
		cloned.CurrentPlayer = &player
	}
	return cloned
}

func appendEvent(state State, eventType string, data any, impact float64) State {
	state.Events = append(state.Events, GameEvent{
		Type:                eventType,
		Data:                data,
		Timestamp:           time.Now(),
		ConsciousnessImpact: impact,
	})
	if len(state.Events) > eventWindow {
		state.Events = state.Events[len(state.Events)-eventWindow:]
	}
	return state
}

// SetPlayer installs the local player record.
type SetPlayer struct {
	Player server.Player
}

func (a SetPlayer) apply(state State) State {
	next := cloneState(state)
	player := a.Player
	next.CurrentPlayer = &player
	next.Players[player.ID] = player
	return next
}

// UpdatePosition moves the local player.
type UpdatePosition struct {
	Position server.Position
}

func (a UpdatePosition) apply(state State) State {
	if state.CurrentPlayer == nil {
		return state
	}
	next := cloneState(state)
	next.CurrentPlayer.Position = a.Position
	next.Players[next.CurrentPlayer.ID] = *next.CurrentPlayer
	return next
}

// AddTerritory appends a locally-built territory before the server confirms
// it.
type AddTerritory struct {
	Territory server.Territory
}

func (a AddTerritory) apply(state State) State {
	next := cloneState(state)
	next.Territories = append(next.Territories, a.Territory)
	next.pendingClaims = append(next.pendingClaims, a.Territory.ID)
	return next
}

// UpdateConsciousness adjusts the local player's total by a delta and
// recomputes the level.
type UpdateConsciousness struct {
	Delta float64
}

func (a UpdateConsciousness) apply(state State) State {
	if state.CurrentPlayer == nil {
		return state
	}
	next := cloneState(state)
	next.CurrentPlayer.Consciousness += a.Delta
	next.CurrentPlayer.Level = server.LevelFor(next.CurrentPlayer.Consciousness)
	next.Players[next.CurrentPlayer.ID] = *next.CurrentPlayer
	next.Level = TierFor(next.CurrentPlayer.Consciousness)
	return next
}

// SetConnected flips the connection indicator.
type SetConnected struct {
	Connected bool
}

func (a SetConnected) apply(state State) State {
	next := cloneState(state)
	next.Connected = a.Connected
	return next
}

// UpdateHealingMetrics overwrites the aggregate healing counters.
type UpdateHealingMetrics struct {
	Healing HealingMetrics
}

func (a UpdateHealingMetrics) apply(state State) State {
	next := cloneState(state)
	next.Healing = a.Healing
	return next
}

// PlayerJoined records a player announced by the server. When the local
// session is still anonymous the first matching record claims the current-
// player slot.
type PlayerJoined struct {
	Player server.Player
	Self   bool
}

func (a PlayerJoined) apply(state State) State {
	next := cloneState(state)
	next.Players[a.Player.ID] = a.Player
	if a.Self {
		player := a.Player
		next.CurrentPlayer = &player
		next.Level = TierFor(player.Consciousness)
	}
	return appendEvent(next, "player-joined", a.Player, 10)
}

// PlayerLeft removes a departed player.
type PlayerLeft struct {
	PlayerID string
}

func (a PlayerLeft) apply(state State) State {
	next := cloneState(state)
	delete(next.Players, a.PlayerID)
	if next.CurrentPlayer != nil && next.CurrentPlayer.ID == a.PlayerID {
		next.CurrentPlayer = nil
	}
	return appendEvent(next, "player-left", map[string]string{"playerId": a.PlayerID}, -5)
}

// PositionUpdated moves a remote player.
type PositionUpdated struct {
	PlayerID string
	Position server.Position
}

func (a PositionUpdated) apply(state State) State {
	player, ok := state.Players[a.PlayerID]
	if !ok {
		return state
	}
	next := cloneState(state)
	player.Position = a.Position
	next.Players[a.PlayerID] = player
	return next
}

// TerritoryClaimed records a server-confirmed claim. A confirmation for the
// local player's own claim replaces the oldest pending optimistic entry
// instead of duplicating it.
type TerritoryClaimed struct {
	Territory server.Territory
}

func (a TerritoryClaimed) apply(state State) State {
	next := cloneState(state)
	if next.CurrentPlayer != nil && a.Territory.PlayerID == next.CurrentPlayer.ID && len(next.pendingClaims) > 0 {
		pendingID := next.pendingClaims[0]
		next.pendingClaims = next.pendingClaims[1:]
		replaced := false
		for i, territory := range next.Territories {
			if territory.ID == pendingID {
				next.Territories[i] = a.Territory
				replaced = true
				break
			}
		}
		if !replaced {
			next.Territories = append(next.Territories, a.Territory)
		}
	} else {
		next.Territories = append(next.Territories, a.Territory)
	}
	return appendEvent(next, "territory-claimed", a.Territory, 25)
}

// ConsciousnessGained applies a server-reported absolute total.
type ConsciousnessGained struct {
	PlayerID      string
	Consciousness float64
}

func (a ConsciousnessGained) apply(state State) State {
	next := cloneState(state)
	player, ok := next.Players[a.PlayerID]
	if ok {
		player.Consciousness = a.Consciousness
		player.Level = server.LevelFor(a.Consciousness)
		next.Players[a.PlayerID] = player
	}
	if next.CurrentPlayer != nil && next.CurrentPlayer.ID == a.PlayerID {
		next.CurrentPlayer.Consciousness = a.Consciousness
		next.CurrentPlayer.Level = server.LevelFor(a.Consciousness)
		next.Level = TierFor(a.Consciousness)
	}
	return appendEvent(next, "consciousness-gained", map[string]any{
		"playerId":      a.PlayerID,
		"consciousness": a.Consciousness,
	}, 15)
}

// HealingZoneConverted flips the named territory in place.
type HealingZoneConverted struct {
	TerritoryID  string
	HealingPower float64
}

func (a HealingZoneConverted) apply(state State) State {
	next := cloneState(state)
	for i, territory := range next.Territories {
		if territory.ID == a.TerritoryID {
			territory.IsHealingZone = true
			territory.HealingPower = a.HealingPower
			next.Territories[i] = territory
			break
		}
	}
	return appendEvent(next, "healing-zone-created", map[string]any{
		"territoryId":  a.TerritoryID,
		"healingPower": a.HealingPower,
	}, 50)
}

// Mirror serializes reducer dispatch so the channel reader and the local
// simulation ticker can share one state.
type Mirror struct {
	mu    sync.Mutex
	state State
}

// New returns a mirror holding the empty state.
func New() *Mirror {
	return &Mirror{state: NewState()}
}

// Dispatch applies one action.
func (m *Mirror) Dispatch(action Action) {
	m.mu.Lock()
	m.state = Reduce(m.state, action)
	m.mu.Unlock()
}

// State returns a copy of the current snapshot.
func (m *Mirror) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneState(m.state)
}

// BuildClaim constructs an optimistic territory for a map click. It fails
// when no player is set or the player is below the claim cost, mirroring the
// server's silent gate.
func (m *Mirror) BuildClaim(pos server.Position) (server.Territory, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	player := m.state.CurrentPlayer
	if player == nil || player.Consciousness < claimCost {
		return server.Territory{}, false
	}

	consciousness := player.Consciousness
	color := colorBase
	switch {
	case consciousness > healingThreshold:
		color = colorHealing
	case consciousness > 100:
		color = colorStrong
	}

	territory := server.Territory{
		ID:            fmt.Sprintf("territory-%d", time.Now().UnixMilli()),
		PlayerID:      player.ID,
		Position:      pos,
		Radius:        50,
		Consciousness: consciousness,
		HealingPower:  consciousness * healingPowerRate,
		Color:         color,
		CreatedAt:     time.Now(),
		IsHealingZone: consciousness > healingThreshold,
	}

	m.state = Reduce(m.state, AddTerritory{Territory: territory})
	m.state = Reduce(m.state, UpdateConsciousness{Delta: -claimCost})
	return territory, true
}
