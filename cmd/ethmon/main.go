package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ethmon/ethmon/internal/cli"
	"github.com/ethmon/ethmon/internal/cli/commands"
	"github.com/ethmon/ethmon/internal/config"
	"github.com/ethmon/ethmon/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	observability.InitLogger(cfg.LogLevel)

	// Initialize tracer (if enabled)
	shutdown, err := observability.InitTracer(observability.TracerConfig{
		ServiceName:    "ethmon",
		ServiceVersion: commands.Version,
		Endpoint:       cfg.OTLPEndpoint,
		Protocol:       cfg.OTLPProtocol,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Tracer shutdown failed")
			}
		}()
	}

	return cli.Execute(cfg)
}
