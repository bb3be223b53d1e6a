package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tyrowin/matrix-relay/internal/chat"
	"github.com/Tyrowin/matrix-relay/internal/server"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the relay, serves until SIGINT/SIGTERM and shuts down gracefully.
func run() error {
	_ = godotenv.Load()
	config, err := server.NewConfigFromEnv()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	relay := chat.NewRelay(log)
	relayServer := server.New(*config, log, relay)
	httpServer := server.CreateServer(config.Port, relayServer.Routes())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.StartServer(log, httpServer)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	if err := server.ShutdownServer(log, httpServer, config.ShutdownTimeout); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	return relayServer.Shutdown(config.ShutdownTimeout)
}
