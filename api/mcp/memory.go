package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Gorgooo61/AI-character/pkg/memory/facts"
	"github.com/Gorgooo61/AI-character/pkg/utils"
)

var (
	memorySearchToolName    = "memory_search"
	memorySearchDescription = "Search the facts the character has learned about its viewers. Returns the most similar stored facts for the query text."

	loreSearchToolName    = "lore_search"
	loreSearchDescription = "Search the character's static lore. Returns lore entries that closely match the query text."

	recentTurnsToolName    = "recent_turns"
	recentTurnsDescription = "List the recent conversation turns held in short-term memory, oldest first."
)

// SearchInput represents the input arguments for the search tools.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return"`
}

// SearchOutput represents the output of the search tools.
type SearchOutput struct {
	Query   string   `json:"query"`
	Results []string `json:"results"`
	Count   int      `json:"count"`
}

// RecentTurnsInput represents the input arguments for recent_turns.
type RecentTurnsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"return only the newest N turns"`
}

// Turn is one short-term exchange.
type Turn struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Assistant string `json:"assistant"`
	Pending   bool   `json:"pending"`
}

// RecentTurnsOutput represents the output of recent_turns.
type RecentTurnsOutput struct {
	Turns []Turn `json:"turns"`
	Count int    `json:"count"`
}

func (s *Server) handleMemorySearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	if strings.TrimSpace(input.Query) == "" {
		return errorResult("query is required"), SearchOutput{}, nil
	}

	t := s.config.Thresholds.Long
	if input.TopK > 0 {
		t.PrimaryTopK = input.TopK
	}

	logger.Debug("MCP memory search request",
		"query", utils.Truncate(input.Query, 80),
		"top_k", t.PrimaryTopK,
	)

	results, err := s.config.Memory.SearchFacts(ctx, input.Query, t)
	if err != nil {
		logger.Error("memory search failed", "error", err)
		return errorResult("Memory search failed: %v", err), SearchOutput{}, nil
	}

	return jsonResult(newSearchOutput(input.Query, results))
}

func (s *Server) handleLoreSearch(_ context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return errorResult("query is required"), SearchOutput{}, nil
	}

	topK := s.config.Thresholds.LoreTopK
	if input.TopK > 0 {
		topK = input.TopK
	}

	results := s.config.Memory.SearchLore(input.Query, s.config.Thresholds.LoreThreshold, topK)
	return jsonResult(newSearchOutput(input.Query, results))
}

func (s *Server) handleRecentTurns(_ context.Context, _ *mcp.CallToolRequest, input RecentTurnsInput) (*mcp.CallToolResult, RecentTurnsOutput, error) {
	recent := s.config.Memory.Recent()
	if input.Limit > 0 && len(recent) > input.Limit {
		recent = recent[len(recent)-input.Limit:]
	}

	turns := make([]Turn, len(recent))
	for i, t := range recent {
		turns[i] = Turn{
			ID:        t.ID,
			User:      facts.StripUserTag(t.UserText),
			Assistant: t.AssistantText,
			Pending:   t.Pending(),
		}
	}

	return jsonResult(RecentTurnsOutput{Turns: turns, Count: len(turns)})
}

func newSearchOutput(query string, results []string) SearchOutput {
	if results == nil {
		results = []string{}
	}
	return SearchOutput{Query: query, Results: results, Count: len(results)}
}
