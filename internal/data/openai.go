package data

import (
	"context"
	"fmt"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/domain"
	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/repo"

	openai "github.com/sashabaranov/go-openai"
)

// GeneratorConfig contains generation backend configuration
type GeneratorConfig struct {
	APIKey      string
	BaseURL     string // optional, for OpenAI-compatible endpoints
	Model       string
	Temperature float32
}

// openaiRepo implements the generator repository over an OpenAI-compatible
// chat completions API
type openaiRepo struct {
	client *openai.Client
	cfg    GeneratorConfig
}

// NewGeneratorRepo creates a generator repository
func NewGeneratorRepo(cfg GeneratorConfig) repo.GeneratorRepo {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &openaiRepo{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
	}
}

// GenerateReply runs one chat completion. Silent requests do not surface the
// prompt in any log.
func (r *openaiRepo) GenerateReply(ctx context.Context, req *repo.GenerateRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Turns)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, turn := range req.Turns {
		role := openai.ChatMessageRoleUser
		if turn.Role == domain.RoleBot {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Text,
		})
	}

	if !req.Silent && len(req.Turns) > 0 {
		last := req.Turns[len(req.Turns)-1]
		fmt.Printf("[Generator] Generating reply for %d turns, last: %q\n", len(req.Turns), truncate(last.Text, 50))
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.cfg.Model,
		Messages:    messages,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
