// Package mcpserver exposes the search core as a single MCP tool over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/amityadav/ragweb/internal/core"
)

const (
	serverName    = "ragweb"
	serverVersion = "0.1.0"

	// ToolName is the only tool the server registers
	ToolName = "search"

	toolDescription = "Search phrase or a URL at google and return crawled web pages as text or Markdown"

	missingQueryMessage = "Error: Missing 'query' argument."
)

// Server wraps an MCP server bound to a search core
type Server struct {
	core *core.SearchCore
	mcp  *server.MCPServer
}

// New creates the MCP server and registers the search tool
func New(searchCore *core.SearchCore) *Server {
	s := &Server{
		core: searchCore,
		mcp:  server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false)),
	}
	s.mcp.AddTool(s.searchTool(), s.handleSearch)
	return s
}

func (s *Server) searchTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(toolDescription),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Google Search keywords or a URL of a specific web page"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("The maximum number of top organic Google Search results whose web pages will be extracted"),
			mcp.DefaultNumber(float64(s.core.DefaultMaxResults())),
			mcp.Min(1),
			mcp.Max(float64(s.core.MaxResultsLimit())),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Request timeout in seconds"),
		),
	)
}

// Serve reads JSON-RPC messages from in and writes responses to out until in
// reaches EOF or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(os.Stderr, "[MCP] ", log.LstdFlags))

	log.Printf("[MCP] %s serving tool %q via %s", serverName, ToolName, s.core.ProviderName())
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// handleSearch reports every failure in-band as a tool error result
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := parseArguments(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.core.Search(ctx, req)
	if err != nil {
		log.Printf("[MCP] search %q failed: %v", req.Query, err)
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}

	data, err := json.Marshal(resp.Results)
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func parseArguments(args map[string]any) (core.SearchRequest, error) {
	var req core.SearchRequest

	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return req, errors.New(missingQueryMessage)
	}
	req.Query = query

	if raw, ok := args["maxResults"]; ok && raw != nil {
		n, err := numberArg(raw)
		if err != nil || n != math.Trunc(n) || n < 1 {
			return req, fmt.Errorf("Error: 'maxResults' must be a positive integer, got %v.", raw)
		}
		req.MaxResults = int(n)
	}

	if raw, ok := args["timeout"]; ok && raw != nil {
		secs, err := numberArg(raw)
		if err != nil || secs <= 0 {
			return req, fmt.Errorf("Error: 'timeout' must be a positive number of seconds, got %v.", raw)
		}
		req.Timeout = time.Duration(secs * float64(time.Second))
	}
	return req, nil
}

func numberArg(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
