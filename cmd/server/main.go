package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"agrorelay/internal/app"
	"agrorelay/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(config.Load())
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
