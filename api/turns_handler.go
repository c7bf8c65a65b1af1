package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Gorgooo61/AI-character/pkg/storage"
)

// TurnsResponse is the body of GET /turns.
type TurnsResponse struct {
	Turns []*storage.Turn `json:"turns"`
	Count int             `json:"count"`
}

// handleListTurns returns archived turns, newest first.
func (s *Server) handleListTurns(c *fiber.Ctx) error {
	if s.config.Archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "turn archive is not configured"})
	}

	limit := storage.DefaultListLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	turns, err := s.config.Archive.List(c.Context(), limit)
	if err != nil {
		s.logger.Error("listing turns", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list turns"})
	}
	if turns == nil {
		turns = []*storage.Turn{}
	}

	return c.JSON(TurnsResponse{Turns: turns, Count: len(turns)})
}

// handleGetTurn returns a single archived turn by id.
func (s *Server) handleGetTurn(c *fiber.Ctx) error {
	if s.config.Archive == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "turn archive is not configured"})
	}

	turn, err := s.config.Archive.Get(c.Context(), c.Params("id"))
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "turn not found"})
	}
	if err != nil {
		s.logger.Error("getting turn", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get turn"})
	}

	return c.JSON(turn)
}
