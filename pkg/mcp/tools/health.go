// Package tools contains MCP tool implementations for labelscan-engine.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// HealthStatus describes the engine's current state.
type HealthStatus struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	KBAdditives int    `json:"kb_additives"`
}

// RegisterHealthTool registers the health check tool with the MCP server.
func RegisterHealthTool(s *server.MCPServer, version string, kbAdditives int, logger *zap.Logger) {
	tool := mcp.NewTool("health",
		mcp.WithDescription("Check the health of the ingredient analysis engine and report the size of the loaded additive knowledge base"),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		status := HealthStatus{
			Status:      "healthy",
			Service:     "labelscan-engine",
			Version:     version,
			KBAdditives: kbAdditives,
		}

		data, err := json.Marshal(status)
		if err != nil {
			logger.Error("Failed to marshal health status", zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal health status: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	})
}
