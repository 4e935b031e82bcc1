package main

import (
	"context"
	"log"
	"os"

	"github.com/anthropics/whatsapp-chat-bridge/mcpserver"
	"github.com/anthropics/whatsapp-chat-bridge/whatsapp"
)

func main() {
	bridgeURL := os.Getenv("BRIDGE_URL")
	if bridgeURL == "" {
		bridgeURL = "http://127.0.0.1:8477"
	}

	client := whatsapp.NewClient(bridgeURL)
	server := mcpserver.NewServer(client)

	if err := server.Run(context.Background()); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
