package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sacred-steps/server/internal/net/proto"
	"sacred-steps/server/internal/telemetry"
	"sacred-steps/server/logging"
	"sacred-steps/server/logging/gameplay"
	"sacred-steps/server/logging/lifecycle"
)

// RegistryConfig carries the injected collaborators for a Registry.
type RegistryConfig struct {
	// EventRetention caps the write side of the event log. Zero means the
	// default retention.
	EventRetention int
	Logger         telemetry.Logger
	Publisher      logging.Publisher
}

// Registry owns the authoritative game state: connected players, claimed
// territories, the event log, and the live subscriber set. It is constructed
// at process start and passed by reference to the transport layer; all
// mutation handlers run to completion under one mutex, so there is a single
// writer at any moment.
type Registry struct {
	mu             sync.Mutex
	players        map[string]*Player
	territories    map[string]*Territory
	territoryOrder []string
	events         []Event
	subscribers    map[string]*subscriber

	retention int
	logger    telemetry.Logger
	publisher logging.Publisher
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// NewRegistry constructs an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	retention := cfg.EventRetention
	if retention <= 0 {
		retention = defaultEventRetention
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Registry{
		players:     make(map[string]*Player),
		territories: make(map[string]*Territory),
		events:      make([]Event, 0),
		subscribers: make(map[string]*subscriber),
		retention:   retention,
		logger:      logger,
		publisher:   publisher,
	}
}

// Subscribe associates a websocket connection with a session id. The session
// exists on the wire before the player joins the game, mirroring how the
// channel transport assigns ids at connect time.
func (r *Registry) Subscribe(sessionID string, conn *websocket.Conn) {
	r.mu.Lock()
	existing := r.subscribers[sessionID]
	r.subscribers[sessionID] = &subscriber{conn: conn}
	r.mu.Unlock()

	if existing != nil {
		existing.conn.Close()
	}
}

// Join creates the player record for a session. The display name defaults
// when the client sent none. The full record is echoed to the joining client
// and, separately, broadcast to everyone else.
func (r *Registry) Join(sessionID, name string) *Player {
	if name == "" {
		name = defaultPlayerName
	}
	player := &Player{
		ID:            sessionID,
		Name:          name,
		Position:      defaultPosition,
		Consciousness: 0,
		Level:         1,
		Territories:   make([]string, 0),
		LastActive:    time.Now(),
	}

	r.mu.Lock()
	r.players[sessionID] = player
	snapshot := clonePlayer(player)
	r.mu.Unlock()

	r.sendTo(sessionID, proto.EventPlayerJoined, snapshot)
	r.broadcast(proto.EventPlayerJoined, snapshot, sessionID)

	lifecycle.PlayerJoined(context.Background(), r.publisher, playerRef(sessionID), lifecycle.PlayerJoinedPayload{
		Name: snapshot.Name,
		Lat:  snapshot.Position.Lat,
		Lng:  snapshot.Position.Lng,
	})
	return player
}

// UpdatePosition overwrites a player's last known position and refreshes the
// activity timestamp. Position updates fan out to the other clients only; the
// sender already applied the move optimistically.
func (r *Registry) UpdatePosition(sessionID string, pos Position) bool {
	r.mu.Lock()
	player, ok := r.players[sessionID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	player.Position = pos
	player.LastActive = time.Now()
	r.mu.Unlock()

	r.broadcast(proto.EventPlayerPositionUpdated, proto.PositionUpdate{
		PlayerID: sessionID,
		Position: proto.Position{Lat: pos.Lat, Lng: pos.Lng},
	}, sessionID)
	return true
}

// ClaimTerritory spends claimCost consciousness to create a territory. The
// registry overwrites the claim's id, owner, and creation time; everything
// else in the payload is kept as sent. A claim from an unknown session or
// from a player below the cost is a silent no-op: clients have no
// error-handling path for rejected claims, the only signal is that nothing
// changes.
func (r *Registry) ClaimTerritory(sessionID string, claim Territory) (Territory, bool) {
	r.mu.Lock()
	player, ok := r.players[sessionID]
	if !ok || player.Consciousness < claimCost {
		r.mu.Unlock()
		return Territory{}, false
	}

	millis := time.Now().UnixMilli()
	claim.ID = fmt.Sprintf("territory-%d-%s", millis, sessionID)
	for {
		if _, exists := r.territories[claim.ID]; !exists {
			break
		}
		millis++
		claim.ID = fmt.Sprintf("territory-%d-%s", millis, sessionID)
	}
	claim.PlayerID = sessionID
	claim.CreatedAt = time.Now()

	stored := claim
	r.territories[claim.ID] = &stored
	r.territoryOrder = append(r.territoryOrder, claim.ID)
	player.Territories = append(player.Territories, claim.ID)
	player.Consciousness -= claimCost
	remaining := player.Consciousness
	r.appendEventLocked(EventTerritoryClaimed, claim)
	r.mu.Unlock()

	r.broadcast(proto.EventTerritoryClaimed, claim, "")
	r.broadcast(proto.EventConsciousnessGained, proto.ConsciousnessGained{
		PlayerID:      sessionID,
		Consciousness: remaining,
	}, "")

	gameplay.TerritoryClaimed(context.Background(), r.publisher, playerRef(sessionID), gameplay.TerritoryClaimedPayload{
		TerritoryID: claim.ID,
		Lat:         claim.Position.Lat,
		Lng:         claim.Position.Lng,
		Remaining:   remaining,
	})
	return claim, true
}

// UpdateConsciousness adds a delta to a player's score and recomputes the
// level. Crossing the healing threshold flips the player's most recent
// territory into a healing zone exactly once: the flip is skipped while any
// owned territory already carries the flag, and the flag itself never
// reverts.
func (r *Registry) UpdateConsciousness(sessionID string, delta float64) (float64, bool) {
	r.mu.Lock()
	player, ok := r.players[sessionID]
	if !ok {
		r.mu.Unlock()
		return 0, false
	}
	player.Consciousness += delta
	player.Level = LevelFor(player.Consciousness)
	total := player.Consciousness

	var zone *proto.HealingZoneCreated
	if total > healingThreshold && !r.hasHealingZoneLocked(player) {
		if n := len(player.Territories); n > 0 {
			if territory, ok := r.territories[player.Territories[n-1]]; ok {
				territory.IsHealingZone = true
				territory.HealingPower = total * healingPowerRate
				zone = &proto.HealingZoneCreated{
					TerritoryID:  territory.ID,
					HealingPower: territory.HealingPower,
				}
			}
		}
	}
	r.mu.Unlock()

	if zone != nil {
		r.broadcast(proto.EventHealingZoneCreated, *zone, "")
		gameplay.HealingZoneCreated(context.Background(), r.publisher, playerRef(sessionID), gameplay.HealingZoneCreatedPayload{
			TerritoryID:  zone.TerritoryID,
			HealingPower: zone.HealingPower,
		})
	}
	r.broadcast(proto.EventConsciousnessGained, proto.ConsciousnessGained{
		PlayerID:      sessionID,
		Consciousness: total,
	}, "")

	gameplay.ConsciousnessGained(context.Background(), r.publisher, playerRef(sessionID), gameplay.ConsciousnessGainedPayload{
		Delta:         delta,
		Consciousness: total,
		Level:         LevelFor(total),
	})
	return total, true
}

// Leave removes the player record and tells the other clients. Territories
// are never reclaimed. The subscriber, if any, stays registered so an
// explicit leave keeps the connection open; transport disconnects go through
// Drop instead.
func (r *Registry) Leave(sessionID string) bool {
	r.mu.Lock()
	player, ok := r.players[sessionID]
	if !ok {
		r.mu.Unlock()
		return false
	}
	name := player.Name
	delete(r.players, sessionID)
	r.mu.Unlock()

	r.broadcast(proto.EventPlayerLeft, sessionID, sessionID)
	lifecycle.PlayerLeft(context.Background(), r.publisher, playerRef(sessionID), lifecycle.PlayerLeftPayload{
		Name:   name,
		Reason: "leave",
	})
	return true
}

// Drop tears down a session after a transport failure or close. From every
// other client's perspective it is indistinguishable from an explicit leave.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	sub, subOK := r.subscribers[sessionID]
	if subOK {
		delete(r.subscribers, sessionID)
	}
	player, playerOK := r.players[sessionID]
	var name string
	if playerOK {
		name = player.Name
		delete(r.players, sessionID)
	}
	r.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}
	if !playerOK {
		return
	}

	r.broadcast(proto.EventPlayerLeft, sessionID, sessionID)
	lifecycle.PlayerLeft(context.Background(), r.publisher, playerRef(sessionID), lifecycle.PlayerLeftPayload{
		Name:   name,
		Reason: "disconnect",
	})
}

// StateSnapshot is the read-side view served over HTTP.
type StateSnapshot struct {
	Players     []Player    `json:"players"`
	Territories []Territory `json:"territories"`
	Events      []Event     `json:"events"`
}

// Snapshot returns a point-in-time copy of the registry: every player, every
// territory in claim order, and the newest slice of the event log.
func (r *Registry) Snapshot() StateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]Player, 0, len(r.players))
	for _, player := range r.players {
		players = append(players, clonePlayer(player))
	}
	territories := make([]Territory, 0, len(r.territoryOrder))
	for _, id := range r.territoryOrder {
		if territory, ok := r.territories[id]; ok {
			territories = append(territories, *territory)
		}
	}
	return StateSnapshot{
		Players:     players,
		Territories: territories,
		Events:      r.recentEventsLocked(),
	}
}

// HealthStatus is the payload of the health-check endpoint.
type HealthStatus struct {
	Status      string `json:"status"`
	Players     int    `json:"players"`
	Territories int    `json:"territories"`
	Timestamp   string `json:"timestamp"`
}

// HealthSnapshot reports live counts as of registry access time.
func (r *Registry) HealthSnapshot() HealthStatus {
	r.mu.Lock()
	players := len(r.players)
	territories := len(r.territories)
	r.mu.Unlock()

	return HealthStatus{
		Status:      "healthy",
		Players:     players,
		Territories: territories,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// sendTo delivers one event to a single session, if it is still subscribed.
func (r *Registry) sendTo(sessionID string, event string, payload any) {
	data, err := proto.Encode(event, payload)
	if err != nil {
		r.logger.Printf("failed to encode %s for %s: %v", event, sessionID, err)
		return
	}
	r.mu.Lock()
	sub := r.subscribers[sessionID]
	r.mu.Unlock()
	if sub == nil {
		return
	}
	if err := sub.write(data); err != nil {
		r.logger.Printf("failed to send %s to %s: %v", event, sessionID, err)
		go r.Drop(sessionID)
	}
}

// broadcast fans an event out to every subscriber except the excluded
// session. Delivery is fire and forget: a failed write tears that session
// down and the rest of the fan-out continues.
func (r *Registry) broadcast(event string, payload any, exclude string) {
	data, err := proto.Encode(event, payload)
	if err != nil {
		r.logger.Printf("failed to encode %s broadcast: %v", event, err)
		return
	}

	r.mu.Lock()
	subs := make(map[string]*subscriber, len(r.subscribers))
	for id, sub := range r.subscribers {
		if id == exclude {
			continue
		}
		subs[id] = sub
	}
	r.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			r.logger.Printf("failed to send %s to %s: %v", event, id, err)
			go r.Drop(id)
		}
	}
}

func (r *Registry) hasHealingZoneLocked(player *Player) bool {
	for _, id := range player.Territories {
		if territory, ok := r.territories[id]; ok && territory.IsHealingZone {
			return true
		}
	}
	return false
}

func playerRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindPlayer}
}
