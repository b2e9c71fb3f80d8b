// Package client is the Go-side counterpart of the browser frontend: it
// drives a mirror from the live channel and exposes the outbound event
// helpers the UI layer would call.
package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/websocket"

	"sacred-steps/server"
	"sacred-steps/server/internal/mirror"
	"sacred-steps/server/internal/net/proto"
	"sacred-steps/server/internal/telemetry"
)

// Client owns one websocket session and the mirror fed by it.
type Client struct {
	conn   *websocket.Conn
	mirror *mirror.Mirror
	logger telemetry.Logger

	mu          sync.Mutex
	awaitSelf   bool
	pendingName string
}

// Dial connects to a running server's /ws endpoint.
func Dial(ctx context.Context, url string, m *mirror.Mirror, logger telemetry.Logger) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{conn: conn, mirror: m, logger: logger}
	c.mirror.Dispatch(mirror.SetConnected{Connected: true})
	return c, nil
}

// Listen pumps inbound frames into the mirror until the connection drops or
// the context is cancelled. It always flips the connection flag off before
// returning.
func (c *Client) Listen(ctx context.Context) error {
	defer c.mirror.Dispatch(mirror.SetConnected{Connected: false})

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}
		env, err := proto.Decode(data)
		if err != nil {
			c.logf("discarding malformed frame: %v", err)
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env proto.Envelope) {
	switch env.Event {
	case proto.EventPlayerJoined:
		var player server.Player
		if err := proto.DecodeData(env, &player); err != nil {
			c.logf("bad player-joined payload: %v", err)
			return
		}
		c.mirror.Dispatch(mirror.PlayerJoined{Player: player, Self: c.claimSelf(player.Name)})
	case proto.EventPlayerLeft:
		var playerID string
		if err := proto.DecodeData(env, &playerID); err != nil {
			c.logf("bad player-left payload: %v", err)
			return
		}
		c.mirror.Dispatch(mirror.PlayerLeft{PlayerID: playerID})
	case proto.EventPlayerPositionUpdated:
		var update proto.PositionUpdate
		if err := proto.DecodeData(env, &update); err != nil {
			c.logf("bad position payload: %v", err)
			return
		}
		c.mirror.Dispatch(mirror.PositionUpdated{
			PlayerID: update.PlayerID,
			Position: server.Position{Lat: update.Position.Lat, Lng: update.Position.Lng},
		})
	case proto.EventTerritoryClaimed:
		var territory server.Territory
		if err := proto.DecodeData(env, &territory); err != nil {
			c.logf("bad territory payload: %v", err)
			return
		}
		c.mirror.Dispatch(mirror.TerritoryClaimed{Territory: territory})
	case proto.EventConsciousnessGained:
		var gained proto.ConsciousnessGained
		if err := proto.DecodeData(env, &gained); err != nil {
			c.logf("bad consciousness payload: %v", err)
			return
		}
		c.mirror.Dispatch(mirror.ConsciousnessGained{
			PlayerID:      gained.PlayerID,
			Consciousness: gained.Consciousness,
		})
	case proto.EventHealingZoneCreated:
		var zone proto.HealingZoneCreated
		if err := proto.DecodeData(env, &zone); err != nil {
			c.logf("bad healing-zone payload: %v", err)
			return
		}
		c.mirror.Dispatch(mirror.HealingZoneConverted{
			TerritoryID:  zone.TerritoryID,
			HealingPower: zone.HealingPower,
		})
	default:
		c.logf("ignoring unknown event %q", env.Event)
	}
}

// Join announces the session under the given display name. The server never
// addresses the client explicitly, so the next player-joined echo carrying
// this name is taken as our own record.
func (c *Client) Join(ctx context.Context, name string) error {
	display := name
	if display == "" {
		display = "Anonymous"
	}
	c.mu.Lock()
	c.awaitSelf = true
	c.pendingName = display
	c.mu.Unlock()
	return c.send(ctx, proto.EventJoinGame, proto.JoinGame{PlayerID: name})
}

// BroadcastPosition reports a movement, applying it locally first.
func (c *Client) BroadcastPosition(ctx context.Context, pos server.Position) error {
	c.mirror.Dispatch(mirror.UpdatePosition{Position: pos})
	return c.send(ctx, proto.EventUpdatePosition, proto.UpdatePosition{
		Position: proto.Position{Lat: pos.Lat, Lng: pos.Lng},
	})
}

// ClaimTerritory builds an optimistic claim and sends it. A local gate
// failure returns false without touching the wire, matching the server's
// silent-rejection policy.
func (c *Client) ClaimTerritory(ctx context.Context, pos server.Position) (bool, error) {
	territory, ok := c.mirror.BuildClaim(pos)
	if !ok {
		return false, nil
	}
	err := c.send(ctx, proto.EventClaimTerritory, proto.ClaimTerritory{
		Position:      proto.Position{Lat: pos.Lat, Lng: pos.Lng},
		Radius:        territory.Radius,
		Consciousness: territory.Consciousness,
		HealingPower:  territory.HealingPower,
		Color:         territory.Color,
	})
	return true, err
}

// BroadcastConsciousness reports earned consciousness points.
func (c *Client) BroadcastConsciousness(ctx context.Context, points float64) error {
	return c.send(ctx, proto.EventUpdateConsciousness, proto.UpdateConsciousness{Consciousness: points})
}

// Leave exits the game while keeping the connection open.
func (c *Client) Leave(ctx context.Context) error {
	return c.send(ctx, proto.EventLeaveGame, nil)
}

// Close tears the connection down.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}

// Mirror exposes the state replica for the view layer.
func (c *Client) Mirror() *mirror.Mirror {
	return c.mirror
}

func (c *Client) claimSelf(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.awaitSelf || name != c.pendingName {
		return false
	}
	c.awaitSelf = false
	return true
}

func (c *Client) send(ctx context.Context, event string, payload any) error {
	data, err := proto.Encode(event, payload)
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *Client) logf(format string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Printf(format, args...)
}
