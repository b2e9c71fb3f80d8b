package lifecycle

import (
	"context"

	"sacred-steps/server/logging"
)

const (
	// EventPlayerJoined is emitted when a session joins the game.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerLeft is emitted when a session leaves or disconnects.
	EventPlayerLeft logging.EventType = "lifecycle.player_left"
)

// PlayerJoinedPayload captures spawn metadata for a new player.
type PlayerJoinedPayload struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// PlayerLeftPayload captures how a player left the game. Reason is "leave"
// for an explicit leave-game event and "disconnect" for a transport failure;
// the distinction is for operators only, other clients see the same thing.
type PlayerLeftPayload struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// PlayerJoined publishes a player join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload PlayerJoinedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// PlayerLeft publishes a player departure event.
func PlayerLeft(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload PlayerLeftPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerLeft,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
