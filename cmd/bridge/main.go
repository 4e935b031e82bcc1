package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/usecase"
	"github.com/anthropics/whatsapp-chat-bridge/internal/conf"
	"github.com/anthropics/whatsapp-chat-bridge/internal/data"
	"github.com/anthropics/whatsapp-chat-bridge/internal/service"
	"github.com/anthropics/whatsapp-chat-bridge/whatsapp"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize bridge client
	bridgeClient := whatsapp.NewClient(cfg.Bridge.BaseURL)

	// Initialize repository layer
	repos, err := data.NewRepositories(bridgeClient, data.GeneratorConfig{
		APIKey:  cfg.Generator.APIKey,
		BaseURL: cfg.Generator.BaseURL,
		Model:   cfg.Generator.Model,
	}, cfg.State.DBPath)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.State.Close()

	fmt.Printf("[Bridge] State DB: %s\n", cfg.State.DBPath)

	ctx := context.Background()

	// Seed destination address from env if configured
	if cfg.Destination != "" {
		if err := repos.State.SaveDestination(ctx, cfg.Destination); err != nil {
			log.Fatalf("Failed to save destination: %v", err)
		}
		fmt.Printf("[Bridge] Destination: %s\n", cfg.Destination)
	}

	// Initialize service layer
	prompts := usecase.NewPromptBuilder(cfg.ToPromptConfig())

	scheduler := service.NewProactiveScheduler(
		repos.Channel, repos.Conversation, repos.Generator, repos.State,
		prompts, cfg.Bridge.ChannelName, cfg.Relay.ReplyTimeout(),
	)
	relay := service.NewRelayLoop(
		repos.Channel, repos.Conversation, repos.Generator, repos.State,
		prompts, scheduler, cfg.Bridge.ChannelName,
		cfg.Relay.PollInterval(), cfg.Relay.ReplyTimeout(),
	)
	manager := service.NewConnectionManager(repos.Channel, relay, scheduler, cfg.Relay.StatusPoll())

	// Reconstruct connection state from the bridge, then try to connect
	manager.Refresh(ctx)
	if manager.State().IsConnected() {
		fmt.Println("[Bridge] Bridge already connected")
	} else {
		manager.Connect(ctx)
	}

	// Watch for state changes (QR scans, drops)
	manager.Run(ctx)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Starting WhatsApp Chat Bridge...")
	<-sigCh
	fmt.Println("\nShutting down...")
	manager.Stop()
}
