package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AlgoRMind/algomind-be/internal/config"

	"google.golang.org/genai"
)

var ErrMissingAPIKey = errors.New("chat api key is not configured")

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client sends prompts to the configured Gemini model.
type Client struct {
	models generator
	model  string
	logger *slog.Logger
}

func NewClient(ctx context.Context, cfg config.ChatConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, errors.New("chat model is not configured")
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	logger.Info("chat client initialized", "model", cfg.Model)

	return &Client{
		models: gc.Models,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

// Generate returns the model's text answer to prompt. system may be empty.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	var genConfig *genai.GenerateContentConfig
	if system != "" {
		genConfig = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), genConfig)
	if err != nil {
		c.logger.ErrorContext(ctx, "chat generation failed", "model", c.model, "error", err)
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
