package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"sacred-steps/server/internal/app"
	"sacred-steps/server/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := telemetry.WrapLogger(log.Default())
	if err := app.Run(ctx, app.ConfigFromEnv(logger)); err != nil {
		log.Fatalf("%v", err)
	}
}
