package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dasbridge/bridge/pkg/alexa"
	"github.com/dasbridge/bridge/pkg/api"
	"github.com/dasbridge/bridge/pkg/identity"
	"github.com/dasbridge/bridge/pkg/registry"
	"github.com/dasbridge/bridge/pkg/schema"
	"github.com/dasbridge/bridge/pkg/shadow"
	"github.com/dasbridge/bridge/pkg/shadow/shadowmqtt"
	"github.com/dasbridge/bridge/pkg/thing"
)

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/dasbridge/bridge.db)")
	brokerURL := flag.String("broker", "", "Shadow broker URL (overrides the configured broker)")
	flag.Parse()

	ctx := context.Background()

	// Open database
	database, err := registry.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	// Run migrations
	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Bootstrap if needed (first run)
	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
		log.Info().Msg("Database bootstrapped successfully")
	}

	// Load configuration
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *brokerURL != "" {
		cfg.Broker.URL = *brokerURL
	}

	log.Info().
		Str("profile", cfg.ProfileName).
		Str("server_address", cfg.Server.Address()).
		Str("broker_url", cfg.Broker.URL).
		Msg("Configuration loaded")

	// Try to connect to the shadow broker; fall back to NullBroker
	var broker shadow.Broker

	mqttBroker, err := shadowmqtt.Connect(shadowmqtt.Config{
		URL:      cfg.Broker.URL,
		ClientID: cfg.Broker.ClientID,
		Username: cfg.Broker.Username,
		Password: cfg.Broker.Password,
	})
	if err != nil {
		log.Warn().Err(err).Str("url", cfg.Broker.URL).Msg("Shadow broker unavailable, using null broker")
		broker = shadow.NewNullBroker()
	} else {
		broker = mqttBroker
		defer mqttBroker.Close()
	}

	provider := identity.NewAmazonProvider(database.Users(), database.Keys(), identity.DefaultProfileURL)
	reader := shadow.NewReader(broker, database.Devices())
	skill := alexa.NewSkill(provider, reader, broker)
	things := thing.NewService(database.Devices(), thing.NewNullIssuer(), cfg.Broker.URL)
	validator := schema.NewValidator()

	// Create and start API router
	router := api.NewRouter(skill, things, provider, broker, validator)

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		broker.Close()
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(0)
	}()

	// Start server
	addr := cfg.Server.Address()
	log.Info().Str("address", addr).Msg("Starting API server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
