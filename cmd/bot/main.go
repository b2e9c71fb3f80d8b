package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"sacred-steps/server"
	"sacred-steps/server/internal/client"
	"sacred-steps/server/internal/mirror"
	"sacred-steps/server/internal/telemetry"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := envDefault("ADDR", "localhost")
	port := envDefault("PORT", "3001")
	botCountStr := envDefault("BOT_COUNT", "3")
	botCount, err := strconv.Atoi(botCountStr)
	if err != nil {
		slog.Error("invalid BOT_COUNT", "value", botCountStr)
		os.Exit(1)
	}

	serverURL := fmt.Sprintf("ws://%s:%s/ws", addr, port)
	slog.Info("starting bots", "count", botCount, "server", serverURL)

	var wg sync.WaitGroup
	for i := 0; i < botCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runBot(ctx, serverURL, id)
		}(i)
	}

	wg.Wait()
	slog.Info("all bots stopped")
}

func envDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func runBot(ctx context.Context, serverURL string, id int) {
	logger := slog.With("botID", id)

	for {
		if ctx.Err() != nil {
			return
		}
		err := botSession(ctx, serverURL, id, logger)
		if err != nil && ctx.Err() == nil {
			logger.Warn("bot session ended, reconnecting", "err", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func botSession(ctx context.Context, serverURL string, id int, logger *slog.Logger) error {
	m := mirror.New()
	wireLogger := telemetry.LoggerFunc(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	})

	c, err := client.Dial(ctx, serverURL, m, wireLogger)
	if err != nil {
		return err
	}
	defer c.Close()

	logger.Info("connected")

	readDone := make(chan error, 1)
	go func() {
		readDone <- c.Listen(ctx)
	}()

	if err := c.Join(ctx, fmt.Sprintf("Bot-%d", id)); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	pos := server.Position{Lat: 40.7128, Lng: -74.0060}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Leave(context.Background())
			return nil
		case err := <-readDone:
			return err
		case <-ticker.C:
			state := m.State()
			if state.CurrentPlayer == nil {
				continue
			}

			// Wander within a few city blocks.
			pos.Lat += (rng.Float64() - 0.5) * 0.002
			pos.Lng += (rng.Float64() - 0.5) * 0.002
			if err := c.BroadcastPosition(ctx, pos); err != nil {
				return err
			}

			if err := c.BroadcastConsciousness(ctx, 5+rng.Float64()*10); err != nil {
				return err
			}

			// Claim whenever the balance allows it.
			if state.CurrentPlayer.Consciousness >= 50 && rng.Float64() < 0.3 {
				claimed, err := c.ClaimTerritory(ctx, pos)
				if err != nil {
					return err
				}
				if claimed {
					logger.Info("claimed territory",
						"lat", pos.Lat,
						"lng", pos.Lng,
						"remaining", state.CurrentPlayer.Consciousness-50,
					)
				}
			}
		}
	}
}
