// Package mcp provides an MCP (Model Context Protocol) server exposing the
// character's memory tiers as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Gorgooo61/AI-character/pkg/memory"
	"github.com/Gorgooo61/AI-character/pkg/memory/longterm"
	"github.com/Gorgooo61/AI-character/pkg/memory/shortterm"
	"github.com/Gorgooo61/AI-character/pkg/utils"
)

// Memory is the read side of the memory tiers.
type Memory interface {
	Recent() []shortterm.Turn
	SearchFacts(ctx context.Context, query string, t longterm.Thresholds) ([]string, error)
	SearchLore(query string, threshold float64, topK int) []string
}

type Config struct {
	// Memory backs every tool.
	Memory Memory

	// Thresholds tune the search tools. Zero means memory.DefaultThresholds.
	Thresholds memory.Thresholds

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the memory tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	// Create the MCP server
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "character",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)
	s.mcpServer = mcpServer

	if !c.Noop {
		if c.Memory == nil {
			return nil, errors.New("memory is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}
		if s.config.Thresholds == (memory.Thresholds{}) {
			s.config.Thresholds = memory.DefaultThresholds()
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        memorySearchToolName,
			Description: memorySearchDescription,
		}, s.handleMemorySearch)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        loreSearchToolName,
			Description: loreSearchDescription,
		}, s.handleLoreSearch)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        recentTurnsToolName,
			Description: recentTurnsDescription,
		}, s.handleRecentTurns)
	}

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

// jsonResult serializes output into a TextContent block alongside the
// structured content.
func jsonResult[T any](output T) (*mcp.CallToolResult, T, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		var zero T
		return errorResult("Failed to serialize results: %v", err), zero, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
