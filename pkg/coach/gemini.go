package coach

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/abrezinsky/spwtrack/internal/logger"
	"github.com/abrezinsky/spwtrack/internal/models"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-3-flash-preview"

// contentGenerator is the slice of *genai.Models the client needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient generates coaching text with Google's Gemini API
type GeminiClient struct {
	models contentGenerator
	model  string
	log    logger.Logger
}

// NewGeminiClient creates a client for apiKey. An empty key is rejected with
// ErrNoCredential so callers can fall back without touching the network.
func NewGeminiClient(ctx context.Context, apiKey, model string, log logger.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{models: client.Models, model: model, log: log}, nil
}

// Name returns the generator name
func (c *GeminiClient) Name() string {
	return "gemini:" + c.model
}

// Generate sends the leader prompt and returns the response text verbatim
func (c *GeminiClient) Generate(ctx context.Context, leader models.TeamLeader) (string, error) {
	prompt := BuildPrompt(leader)
	c.log.Debug("Requesting coaching summary", "model", c.model, "leader_id", leader.ID, "prompt_bytes", len(prompt))

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	temperature := float32(0.7)

	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
