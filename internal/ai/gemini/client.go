package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hirecheck/hirecheck/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 2
	retryBackoff      = 2 * time.Second
)

// Generator wraps the Google GenAI client to provide simple prompt-based
// interactions with bounded retries.
type Generator struct {
	client     *genai.Client
	modelName  string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		client:     client,
		modelName:  model,
		maxRetries: maxRetries,
		logger:     logger,
	}, nil
}

// GenerateContent sends the prompt to Gemini and returns the first textual
// response, retrying failures with a fixed backoff.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries+1; attempt++ {
		output, err := g.generateOnce(ctx, prompt)
		if err == nil {
			return output, nil
		}
		lastErr = err

		if attempt <= g.maxRetries {
			g.logger.Warn("gemini request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if waitErr := utils.WaitFor(ctx, retryBackoff); waitErr != nil {
				return "", waitErr
			}
		}
	}

	return "", fmt.Errorf("generate content after %d attempts: %w", g.maxRetries+1, lastErr)
}

func (g *Generator) generateOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
