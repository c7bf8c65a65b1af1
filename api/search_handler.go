package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Gorgooo61/AI-character/pkg/memory"
	"github.com/Gorgooo61/AI-character/pkg/memory/shortterm"
)

// RecentResponse is the body of GET /memory/recent.
type RecentResponse struct {
	Turns []shortterm.Turn `json:"turns"`
	Count int              `json:"count"`
}

// SearchResponse is the body of the search endpoints.
type SearchResponse struct {
	Query   string   `json:"query"`
	Results []string `json:"results"`
	Count   int      `json:"count"`
}

// handleRecent returns the short-term turns, oldest first.
func (s *Server) handleRecent(c *fiber.Ctx) error {
	turns := s.config.Memory.Recent()
	if turns == nil {
		turns = []shortterm.Turn{}
	}
	return c.JSON(RecentResponse{Turns: turns, Count: len(turns)})
}

// handleMemorySearch handles GET /memory/search requests.
// Query parameters:
//   - q (required): the search query text
//   - top_k (optional): overrides the primary tier's result count
func (s *Server) handleMemorySearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "q parameter is required",
		})
	}

	t := s.config.Thresholds.Long
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		t.PrimaryTopK = parsed
	}

	results, err := s.config.Memory.SearchFacts(c.Context(), query, t)
	if errors.Is(err, memory.ErrNotConfigured) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "long-term memory is not configured",
		})
	}
	if err != nil {
		s.logger.Error("memory search failed", "query", query, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(newSearchResponse(query, results))
}

// handleLoreSearch handles GET /lore/search?q=.
func (s *Server) handleLoreSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "q parameter is required",
		})
	}

	topK := s.config.Thresholds.LoreTopK
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	results := s.config.Memory.SearchLore(query, s.config.Thresholds.LoreThreshold, topK)
	return c.JSON(newSearchResponse(query, results))
}

func newSearchResponse(query string, results []string) SearchResponse {
	if results == nil {
		results = []string{}
	}
	return SearchResponse{Query: query, Results: results, Count: len(results)}
}
