package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anthropics/whatsapp-chat-bridge/whatsapp"
)

// ChannelMCPServer exposes the WhatsApp bridge operations as MCP tools, so
// an agent can inspect and drive the channel directly.
type ChannelMCPServer struct {
	server *mcp.Server
}

var globalClient *whatsapp.Client

// NewServer creates a new channel MCP server backed by the bridge client
func NewServer(client *whatsapp.Client) *ChannelMCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "whatsapp-tools",
		Version: "v1.0.0",
	}, nil)

	globalClient = client

	s := &ChannelMCPServer{server: server}
	s.registerTools()
	return s
}

func (s *ChannelMCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "whatsapp_get_status",
		Description: "Get the WhatsApp bridge connection status (disconnected, connecting, qr_pending, connected, error).",
	}, handleGetStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "whatsapp_send_message",
		Description: "Send a text message to a WhatsApp destination address.",
	}, handleSendMessage)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "whatsapp_fetch_messages",
		Description: "Drain and return the pending inbound WhatsApp messages. Messages are consumed by this call.",
	}, handleFetchMessages)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "whatsapp_connect",
		Description: "Ask the bridge to establish the WhatsApp session. May require a QR scan on the bridge side.",
	}, handleConnect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "whatsapp_disconnect",
		Description: "Tear down the WhatsApp session, keeping credentials for a later reconnect.",
	}, handleDisconnect)
}

// GetStatusInput is empty - no input needed
type GetStatusInput struct{}

// GetStatusOutput is the output for get_status
type GetStatusOutput struct {
	State      string `json:"state"`
	ClientInfo string `json:"client_info,omitempty"`
	Error      string `json:"error,omitempty"`
}

func handleGetStatus(ctx context.Context, req *mcp.CallToolRequest, input GetStatusInput) (*mcp.CallToolResult, GetStatusOutput, error) {
	status, err := globalClient.GetStatus(ctx)
	if err != nil {
		return nil, GetStatusOutput{Error: err.Error()}, nil
	}
	return nil, GetStatusOutput{State: status.State, ClientInfo: status.ClientInfo}, nil
}

// SendMessageInput is the input for send_message
type SendMessageInput struct {
	To   string `json:"to" jsonschema:"description=The destination address"`
	Text string `json:"text" jsonschema:"description=The message text to send"`
}

// SendMessageOutput is the output for send_message
type SendMessageOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func handleSendMessage(ctx context.Context, req *mcp.CallToolRequest, input SendMessageInput) (*mcp.CallToolResult, SendMessageOutput, error) {
	if err := globalClient.SendMessage(ctx, input.To, input.Text); err != nil {
		return nil, SendMessageOutput{Success: false, Error: err.Error()}, nil
	}
	return nil, SendMessageOutput{Success: true}, nil
}

// FetchMessagesInput is empty - no input needed
type FetchMessagesInput struct{}

// FetchMessagesOutput contains the drained messages
type FetchMessagesOutput struct {
	Messages []whatsapp.Message `json:"messages"`
	Error    string             `json:"error,omitempty"`
}

func handleFetchMessages(ctx context.Context, req *mcp.CallToolRequest, input FetchMessagesInput) (*mcp.CallToolResult, FetchMessagesOutput, error) {
	msgs, err := globalClient.PendingMessages(ctx)
	if err != nil {
		return nil, FetchMessagesOutput{Error: err.Error()}, nil
	}
	return nil, FetchMessagesOutput{Messages: msgs}, nil
}

// ConnectInput is empty - no input needed
type ConnectInput struct{}

// ConnectOutput is the output for connect
type ConnectOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func handleConnect(ctx context.Context, req *mcp.CallToolRequest, input ConnectInput) (*mcp.CallToolResult, ConnectOutput, error) {
	result, err := globalClient.Connect(ctx)
	if err != nil {
		return nil, ConnectOutput{Success: false, Error: err.Error()}, nil
	}
	return nil, ConnectOutput{Success: result.Success, Error: result.Error}, nil
}

// DisconnectInput is empty - no input needed
type DisconnectInput struct{}

// DisconnectOutput is the output for disconnect
type DisconnectOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func handleDisconnect(ctx context.Context, req *mcp.CallToolRequest, input DisconnectInput) (*mcp.CallToolResult, DisconnectOutput, error) {
	if err := globalClient.Disconnect(ctx); err != nil {
		return nil, DisconnectOutput{Success: false, Error: err.Error()}, nil
	}
	return nil, DisconnectOutput{Success: true}, nil
}

// Run starts the MCP server with stdio transport
func (s *ChannelMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
