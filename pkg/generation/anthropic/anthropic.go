// Package anthropic implements generation.Generator on the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Gorgooo61/AI-character/pkg/generation"
	"github.com/Gorgooo61/AI-character/pkg/logger"
)

const (
	DefaultModel     = "claude-haiku-4-5"
	defaultMaxTokens = 1024
)

// Config holds configuration for the Anthropic generator.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// MaxRetries is passed to the SDK. Zero keeps the SDK default.
	MaxRetries int

	Logger *slog.Logger
}

// Generator sends single-turn requests to the Messages API.
type Generator struct {
	client anthropic.Client
	model  string
	logger *slog.Logger
}

// New creates a Generator. The API key is required.
func New(c Config) (*Generator, error) {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return nil, errors.New("anthropic api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if c.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.BaseURL))
	}
	if c.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(c.MaxRetries))
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client: anthropic.NewClient(opts...),
		model:  model,
		logger: logger.OrNop(c.Logger),
	}, nil
}

// Generate sends req and concatenates the text blocks of the answer. The
// Messages API has no JSON format switch, so a Schema is appended to the
// system prompt as an instruction.
func (g *Generator) Generate(ctx context.Context, req generation.Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	system := req.System
	if len(req.Schema) > 0 {
		system = strings.TrimSpace(system + "\nRespond with JSON matching this schema: " + string(req.Schema))
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	// Current models accept either temperature or top_p, not both.
	switch {
	case req.Temperature > 0:
		params.Temperature = anthropic.Float(req.Temperature)
	case req.TopP > 0:
		params.TopP = anthropic.Float(req.TopP)
	}

	start := time.Now()
	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", generation.ErrGeneration, err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	g.logger.Debug("anthropic generation",
		"model", g.model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", string(resp.StopReason),
		"duration", time.Since(start),
	)

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", generation.ErrEmptyResponse
	}
	return text, nil
}

var _ generation.Generator = (*Generator)(nil)
