package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/amityadav/ragweb/internal/config"
	"github.com/amityadav/ragweb/internal/core"
	"github.com/amityadav/ragweb/internal/search"
)

type stubProvider struct {
	results []search.Result
	err     error

	query      string
	maxResults int
	deadline   time.Time
}

func (p *stubProvider) Name() string { return "apify" }

func (p *stubProvider) SearchWeb(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	p.query = query
	p.maxResults = maxResults
	p.deadline, _ = ctx.Deadline()
	return p.results, p.err
}

func newTestServer(p *stubProvider) *Server {
	cfg := config.Default()
	cfg.DefaultMaxResults = 1
	cfg.MaxResultsLimit = 5
	return New(core.NewSearchCore(p, cfg))
}

func callSearch(t *testing.T, s *Server, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName
	req.Params.Arguments = args

	res, err := s.handleSearch(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", res.Content[0])
		return ""
	}
}

func TestHandleSearch_Success(t *testing.T) {
	date := "2024-05-01"
	p := &stubProvider{results: []search.Result{
		{Title: "One", URL: "https://one.example", Content: "first", Markdown: "# One", PublishedDate: &date},
		{Title: "Two", URL: "https://two.example", Content: "second", Markdown: "# Two"},
	}}
	res := callSearch(t, newTestServer(p), map[string]any{"query": "golang", "maxResults": float64(2)})

	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if p.query != "golang" || p.maxResults != 2 {
		t.Errorf("provider called with (%q, %d)", p.query, p.maxResults)
	}

	var got []search.Result
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("result is not a JSON array: %v", err)
	}
	if len(got) != 2 || got[0].URL != "https://one.example" || got[1].Title != "Two" {
		t.Errorf("unexpected results: %+v", got)
	}
	if got[0].PublishedDate == nil || *got[0].PublishedDate != date {
		t.Errorf("publishedDate not preserved: %+v", got[0])
	}
}

func TestHandleSearch_DefaultsAndTimeout(t *testing.T) {
	p := &stubProvider{}
	before := time.Now()
	res := callSearch(t, newTestServer(p), map[string]any{"query": "q", "timeout": "2"})

	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if p.maxResults != 1 {
		t.Errorf("maxResults = %d, want default 1", p.maxResults)
	}
	if p.deadline.IsZero() || p.deadline.After(before.Add(3*time.Second)) {
		t.Errorf("timeout not applied, deadline %v", p.deadline)
	}
	if text := resultText(t, res); text != "[]" {
		t.Errorf("empty search should return [], got %q", text)
	}
}

func TestHandleSearch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		provErr  error
		contains string
	}{
		{"missing query", map[string]any{}, nil, missingQueryMessage},
		{"blank query", map[string]any{"query": "  "}, nil, missingQueryMessage},
		{"non-string query", map[string]any{"query": 42}, nil, missingQueryMessage},
		{"non-numeric max", map[string]any{"query": "q", "maxResults": "many"}, nil, "maxResults"},
		{"fractional max", map[string]any{"query": "q", "maxResults": 1.5}, nil, "maxResults"},
		{"max above limit", map[string]any{"query": "q", "maxResults": float64(6)}, nil, "between 1 and 5"},
		{"bad timeout", map[string]any{"query": "q", "timeout": float64(-1)}, nil, "timeout"},
		{
			"upstream failure",
			map[string]any{"query": "q"},
			&search.UpstreamError{Provider: "apify", StatusCode: 401, Status: "Unauthorized"},
			"apify api error: 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callSearch(t, newTestServer(&stubProvider{err: tt.provErr}), tt.args)
			if !res.IsError {
				t.Fatal("expected tool error result")
			}
			if text := resultText(t, res); !strings.Contains(text, tt.contains) {
				t.Errorf("error text %q should contain %q", text, tt.contains)
			}
		})
	}
}

func TestHandleMessage_ToolsList(t *testing.T) {
	s := newTestServer(&stubProvider{})
	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)

	out, err := json.Marshal(s.mcp.HandleMessage(context.Background(), msg))
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	body := string(out)
	for _, want := range []string{`"name":"search"`, `"query"`, `"maxResults"`, `"required":["query"]`} {
		if !strings.Contains(body, want) {
			t.Errorf("tools/list response missing %s: %s", want, body)
		}
	}
}
