package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Gorgooo61/AI-character/pkg/capture"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Fields  map[status.Field]status.Value `json:"fields"`
	Pending int                           `json:"pending_events"`
}

// SwitchesRequest toggles the runtime switches. Nil fields are left alone.
type SwitchesRequest struct {
	CaptureEnabled *bool `json:"capture_enabled,omitempty"`
	AvatarEnabled  *bool `json:"avatar_enabled,omitempty"`
}

// InputRequest is the body of POST /input.
type InputRequest struct {
	Text string `json:"text"`
}

// SpeakingRequest is the body of POST /speaking.
type SpeakingRequest struct {
	Speaking bool `json:"speaking"`
}

// HotkeyRequest is the body of POST /hotkey.
type HotkeyRequest struct {
	Name string `json:"name"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStatus returns every status field with its last change time.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Fields:  s.config.Bus.Snapshot(),
		Pending: s.config.Bus.Pending(),
	})
}

func (s *Server) handleSwitches(c *fiber.Ctx) error {
	var req SwitchesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.CaptureEnabled != nil {
		s.config.Bus.SetBool(status.CaptureEnabled, *req.CaptureEnabled)
	}
	if req.AvatarEnabled != nil {
		s.config.Bus.SetBool(status.AvatarEnabled, *req.AvatarEnabled)
	}

	return s.handleStatus(c)
}

// handleInput queues an utterance on the API capturer.
func (s *Server) handleInput(c *fiber.Ctx) error {
	if s.config.Input == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "input is not accepted: capture mode is not api",
		})
	}

	var req InputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	err := s.config.Input.Submit(req.Text)
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusAccepted)
	case errors.Is(err, capture.ErrQueueFull):
		return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, capture.ErrDisabled), errors.Is(err, capture.ErrStopped):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("submitting input", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to submit input"})
	}
}

// handleSpeaking records whether the remote user is mid-utterance.
func (s *Server) handleSpeaking(c *fiber.Ctx) error {
	if s.config.Input == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "input is not accepted: capture mode is not api",
		})
	}

	var req SpeakingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	s.config.Input.SetSpeaking(req.Speaking)
	return c.SendStatus(fiber.StatusNoContent)
}

// handleHotkey queues an explicit avatar hotkey.
func (s *Server) handleHotkey(c *fiber.Ctx) error {
	if s.config.Hotkeys == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "avatar is not running"})
	}

	var req HotkeyRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "hotkey name is required"})
	}

	if err := s.config.Hotkeys.TriggerHotkey(req.Name); err != nil {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
	}
	return c.SendStatus(fiber.StatusAccepted)
}
