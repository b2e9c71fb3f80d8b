package ws

import (
	"log"
	nethttp "net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sacred-steps/server"
	"sacred-steps/server/internal/net/proto"
	"sacred-steps/server/internal/telemetry"
)

type HandlerConfig struct {
	// AllowedOrigins limits which browser origins may open a socket. Empty
	// means any origin.
	AllowedOrigins []string
	Logger         telemetry.Logger
}

// Handler upgrades HTTP requests to websocket sessions and pumps inbound
// frames into the registry. Each connection gets a fresh session id at
// upgrade time; the id doubles as the player id once the client joins.
type Handler struct {
	registry *server.Registry
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

func NewHandler(registry *server.Registry, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = struct{}{}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}

	return &Handler{
		registry: registry,
		logger:   logger,
		upgrader: upgrader,
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	sessionID := uuid.NewString()
	h.registry.Subscribe(sessionID, conn)
	h.logger.Printf("session connected: %s", sessionID)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.logger.Printf("session closed: %s: %v", sessionID, err)
			h.registry.Drop(sessionID)
			return
		}

		env, err := proto.Decode(payload)
		if err != nil {
			h.logger.Printf("discarding malformed frame from %s: %v", sessionID, err)
			continue
		}

		switch env.Event {
		case proto.EventJoinGame:
			var req proto.JoinGame
			if len(env.Data) > 0 {
				if err := proto.DecodeData(env, &req); err != nil {
					h.logger.Printf("discarding join from %s: %v", sessionID, err)
					continue
				}
			}
			h.registry.Join(sessionID, req.PlayerID)
		case proto.EventUpdatePosition:
			var req proto.UpdatePosition
			if err := proto.DecodeData(env, &req); err != nil {
				h.logger.Printf("discarding position from %s: %v", sessionID, err)
				continue
			}
			h.registry.UpdatePosition(sessionID, server.Position{Lat: req.Lat, Lng: req.Lng})
		case proto.EventClaimTerritory:
			var req proto.ClaimTerritory
			if err := proto.DecodeData(env, &req); err != nil {
				h.logger.Printf("discarding claim from %s: %v", sessionID, err)
				continue
			}
			h.registry.ClaimTerritory(sessionID, server.Territory{
				Position:      server.Position{Lat: req.Position.Lat, Lng: req.Position.Lng},
				Radius:        req.Radius,
				Consciousness: req.Consciousness,
				HealingPower:  req.HealingPower,
				Color:         req.Color,
			})
		case proto.EventUpdateConsciousness:
			var req proto.UpdateConsciousness
			if err := proto.DecodeData(env, &req); err != nil {
				h.logger.Printf("discarding consciousness update from %s: %v", sessionID, err)
				continue
			}
			h.registry.UpdateConsciousness(sessionID, req.Consciousness)
		case proto.EventLeaveGame:
			// The socket stays open after an explicit leave; only the
			// player record goes away.
			h.registry.Leave(sessionID)
		default:
			h.logger.Printf("unknown event %q from %s", env.Event, sessionID)
		}
	}
}
