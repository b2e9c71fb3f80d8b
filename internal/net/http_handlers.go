package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"os"
	"path/filepath"

	"sacred-steps/server"
	"sacred-steps/server/internal/net/ws"
	"sacred-steps/server/internal/telemetry"
)

type HTTPHandlerConfig struct {
	// ClientDir points at the built frontend bundle. When it is missing or
	// empty a placeholder page is served instead.
	ClientDir      string
	AllowedOrigins []string
	Logger         telemetry.Logger
}

// NewHTTPHandler assembles the full HTTP surface: the REST read endpoints,
// the websocket upgrade path, and the static client.
func NewHTTPHandler(registry *server.Registry, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/api/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, logger, registry.HealthSnapshot())
	})

	mux.HandleFunc("/api/game-state", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, logger, registry.Snapshot())
	})

	wsHandler := ws.NewHandler(registry, ws.HandlerConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	mux.HandleFunc("/ws", wsHandler.Handle)

	mux.Handle("/", clientHandler(cfg.ClientDir))

	return corsMiddleware(mux, cfg.AllowedOrigins)
}

// clientHandler serves the built frontend with an index.html fallback so
// client-side routes resolve after a hard refresh. Without a build it serves
// a small status page.
func clientHandler(dir string) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if dir != "" {
			requested := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
			if info, err := os.Stat(requested); err == nil && !info.IsDir() {
				nethttp.ServeFile(w, r, requested)
				return
			}
			index := filepath.Join(dir, "index.html")
			if _, err := os.Stat(index); err == nil {
				nethttp.ServeFile(w, r, index)
				return
			}
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(placeholderPage))
	})
}

const placeholderPage = `<!DOCTYPE html>
<html>
<head><title>Sacred Steps Server</title></head>
<body>
<h1>Sacred Steps multiplayer server is running</h1>
<p>The game client has not been built. The websocket endpoint is at <code>/ws</code>.</p>
</body>
</html>
`

// corsMiddleware reflects allow-listed origins and short-circuits preflight
// requests.
func corsMiddleware(next nethttp.Handler, allowedOrigins []string) nethttp.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Add("Vary", "Origin")
			}
		}
		if r.Method == nethttp.MethodOptions {
			w.WriteHeader(nethttp.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w nethttp.ResponseWriter, logger telemetry.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode response: %v", err)
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
