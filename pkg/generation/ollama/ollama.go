// Package ollama implements generation.Generator over Ollama's /api/chat.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/generation"
	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/utils"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"

	defaultTimeout = 5 * time.Minute
)

// Config holds configuration for the Ollama generator.
type Config struct {
	BaseURL   string
	Model     string
	KeepAlive string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Generator calls Ollama's chat endpoint without streaming.
type Generator struct {
	baseURL    string
	model      string
	keepAlive  string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Generator.
func New(c Config) *Generator {
	baseURL := strings.TrimRight(c.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Generator{
		baseURL:    baseURL,
		model:      model,
		keepAlive:  c.KeepAlive,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.OrNop(c.Logger),
	}
}

// Generate sends req as a system + user chat. A non-empty Schema is passed
// as Ollama's structured output format.
func (g *Generator) Generate(ctx context.Context, req generation.Request) (string, error) {
	body := chatRequest{
		Model:     g.model,
		Stream:    false,
		Format:    req.Schema,
		KeepAlive: g.keepAlive,
		Options:   options(req),
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %w", generation.ErrGeneration, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", generation.ErrGeneration, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", utils.UserAgent())

	start := time.Now()
	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %w", generation.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: ollama returned status %d: %s", generation.ErrGeneration, resp.StatusCode, string(msg))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %w", generation.ErrGeneration, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", generation.ErrGeneration, out.Error)
	}

	text := strings.TrimSpace(out.Message.Content)
	g.logger.Debug("ollama generation",
		"model", g.model,
		"prompt_tokens", out.PromptEvalCount,
		"completion_tokens", out.EvalCount,
		"duration", time.Since(start),
	)
	if text == "" {
		return "", generation.ErrEmptyResponse
	}
	return text, nil
}

func options(req generation.Request) *chatOptions {
	o := &chatOptions{}
	if req.Temperature > 0 {
		o.Temperature = &req.Temperature
	}
	if req.TopP > 0 {
		o.TopP = &req.TopP
	}
	if req.MaxTokens > 0 {
		o.NumPredict = &req.MaxTokens
	}
	if o.Temperature == nil && o.TopP == nil && o.NumPredict == nil {
		return nil
	}
	return o
}

var _ generation.Generator = (*Generator)(nil)
