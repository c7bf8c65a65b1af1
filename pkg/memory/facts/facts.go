// Package facts extracts durable, user-centric facts from a single exchange
// using a generator and a tolerant JSON-array parser.
package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/Gorgooo61/AI-character/pkg/generation"
	"github.com/Gorgooo61/AI-character/pkg/logger"
)

const (
	// MaxFacts is the most facts kept from one exchange.
	MaxFacts = 2

	MaxTokens   = 120
	Temperature = 0.2
	TopP        = 0.9
)

const SystemPrompt = "You are a precise fact extractor.\n" +
	"Given a short exchange, extract AT MOST 2 concise, user-centric factual statements.\n" +
	"Rules:\n" +
	"- Output ONLY a valid JSON array of strings.\n" +
	"- No explanations, no markdown, no extra keys.\n" +
	"- Facts must be stable and useful later (preferences, constraints, long-term info).\n" +
	"- Do NOT include transient details (e.g., 'today', 'right now', temporary moods) unless explicitly long-term.\n" +
	"- If there are no useful facts, output an empty JSON array: []\n"

const userPromptFormat = "Conversation:\n\n%s\n\nExtract at most 2 concise facts about the USER that will remain useful later."

var (
	userTag    = regexp.MustCompile(`(?i)^\s*\[USER\]\s*:\s*`)
	firstArray = regexp.MustCompile(`\[[\s\S]*?\]`)

	schema = buildSchema()
)

type factList []string

func buildSchema() json.RawMessage {
	r := jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	s := r.Reflect(factList{})
	s.Version = ""
	s.Description = "At most two concise facts about the user."
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return raw
}

// Schema returns the JSON schema sent as the output hint.
func Schema() json.RawMessage {
	return schema
}

// StripUserTag removes a leading "[USER]:" tag, case-insensitively, and
// trims the result.
func StripUserTag(text string) string {
	return strings.TrimSpace(userTag.ReplaceAllString(text, ""))
}

// Conversation renders the exchange shown to the extractor. It returns ""
// when both sides are empty.
func Conversation(userText, assistantText string) string {
	u := StripUserTag(userText)
	a := strings.TrimSpace(assistantText)

	switch {
	case u != "" && a != "":
		return "User: " + u + "\nAssistant: " + a
	case a != "":
		return "Assistant: " + a
	case u != "":
		return "User: " + u
	}
	return ""
}

// UserPrompt wraps a conversation block in the extraction instruction.
func UserPrompt(conversation string) string {
	return fmt.Sprintf(userPromptFormat, conversation)
}

// Parse reads up to MaxFacts trimmed, non-empty strings from raw model
// output. The whole output is tried as a JSON array first, then the first
// bracketed span in it. Anything else yields no facts.
func Parse(raw string) []string {
	if facts, ok := parseList(raw); ok {
		return facts
	}
	m := firstArray.FindString(raw)
	if m == "" {
		return nil
	}
	facts, _ := parseList(m)
	return facts
}

func parseList(s string) ([]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &items); err != nil {
		return nil, false
	}

	out := []string{}
	for _, item := range items {
		if str, ok := item.(string); ok {
			if t := strings.TrimSpace(str); t != "" {
				out = append(out, t)
			}
		}
		if len(out) >= MaxFacts {
			break
		}
	}
	return out, true
}

// Extractor asks a generator for facts about the user in one exchange.
type Extractor struct {
	gen    generation.Generator
	logger *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(gen generation.Generator, log *slog.Logger) *Extractor {
	return &Extractor{gen: gen, logger: logger.OrNop(log)}
}

// Extract returns at most MaxFacts facts. Both sides empty makes no
// generator call. Only generation errors are returned; unusable output is
// an empty result.
func (e *Extractor) Extract(ctx context.Context, userText, assistantText string) ([]string, error) {
	conversation := Conversation(userText, assistantText)
	if conversation == "" {
		return nil, nil
	}

	raw, err := e.gen.Generate(ctx, generation.Request{
		System:      SystemPrompt,
		Prompt:      UserPrompt(conversation),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
		TopP:        TopP,
		Schema:      schema,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting facts: %w", err)
	}

	facts := Parse(raw)
	e.logger.Debug("extracted facts", "count", len(facts), "raw", raw)
	return facts, nil
}
