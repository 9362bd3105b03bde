// Package mcp exposes the tools of a Model Context Protocol server as an
// agents.Toolkit.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/TolaniSilas/agents"
	"github.com/TolaniSilas/agents/llm"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	clientName    = "agents"
	clientVersion = "0.1.0"
)

type toolkit[C any] struct {
	init Init[C]
}

// NewToolkit connects to the server returned by init once per run session.
func NewToolkit[C any](init Init[C]) agents.Toolkit[C] {
	return &toolkit[C]{init: init}
}

func (t *toolkit[C]) CreateSession(ctx context.Context, contextVal C) (agents.ToolkitSession[C], error) {
	params, err := t.init(ctx, contextVal)
	if err != nil {
		return nil, fmt.Errorf("mcp: resolve server: %w", err)
	}
	transport, err := params.transport()
	if err != nil {
		return nil, err
	}

	s := &session[C]{}
	client := gomcp.NewClient(&gomcp.Implementation{Name: clientName, Version: clientVersion}, &gomcp.ClientOptions{
		ToolListChangedHandler: func(ctx context.Context, _ *gomcp.ToolListChangedRequest) {
			if err := s.reload(ctx); err != nil {
				slog.WarnContext(ctx, "mcp tool list refresh failed, keeping previous tools", "error", err)
			}
		},
	})

	// The client session is bound to the context passed to Connect for its
	// whole life, so it must not be the per-call ctx.
	cs, err := client.Connect(context.Background(), transport, nil)
	if err != nil {
		return nil, fmt.Errorf("mcp: connect: %w", err)
	}
	s.cs = cs

	if err := s.reload(ctx); err != nil {
		_ = cs.Close()
		return nil, err
	}
	return s, nil
}

type session[C any] struct {
	cs *gomcp.ClientSession

	mu    sync.RWMutex
	tools []agents.AgentTool[C]
}

func (s *session[C]) SystemPrompt() *string { return nil }

func (s *session[C]) Tools() []agents.AgentTool[C] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]agents.AgentTool[C](nil), s.tools...)
}

func (s *session[C]) Close(context.Context) error {
	if err := s.cs.Close(); err != nil {
		return fmt.Errorf("mcp: close: %w", err)
	}
	return nil
}

// reload replaces the tool list with every page the server returns.
func (s *session[C]) reload(ctx context.Context) error {
	var tools []agents.AgentTool[C]
	cursor := ""
	for {
		page, err := s.cs.ListTools(ctx, &gomcp.ListToolsParams{Cursor: cursor})
		if err != nil {
			return fmt.Errorf("mcp: list tools: %w", err)
		}
		for _, tool := range page.Tools {
			converted, err := newRemoteTool[C](s.cs, tool)
			if err != nil {
				return err
			}
			tools = append(tools, converted)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	s.mu.Lock()
	s.tools = tools
	s.mu.Unlock()
	return nil
}

type remoteTool[C any] struct {
	cs          *gomcp.ClientSession
	name        string
	description string
	parameters  llm.JSONSchema
}

func newRemoteTool[C any](cs *gomcp.ClientSession, tool *gomcp.Tool) (*remoteTool[C], error) {
	schema := llm.JSONSchema{"type": "object"}
	if tool.InputSchema != nil {
		raw, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("mcp: schema of %s: %w", tool.Name, err)
		}
		if err := json.Unmarshal(raw, &schema); err != nil {
			return nil, fmt.Errorf("mcp: schema of %s: %w", tool.Name, err)
		}
	}
	return &remoteTool[C]{cs: cs, name: tool.Name, description: tool.Description, parameters: schema}, nil
}

func (t *remoteTool[C]) Name() string               { return t.name }
func (t *remoteTool[C]) Description() string        { return t.description }
func (t *remoteTool[C]) Parameters() llm.JSONSchema { return t.parameters }

// Execute forwards the call. A result the server flags as an error reaches
// the model as an error tool result rather than failing the run.
func (t *remoteTool[C]) Execute(ctx context.Context, params json.RawMessage, _ C, _ *agents.RunState) (agents.AgentToolResult, error) {
	arguments := map[string]any{}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &arguments); err != nil {
			return agents.AgentToolResult{}, agents.NewToolRetryError("arguments for %s are not a JSON object: %v", t.name, err)
		}
	}

	result, err := t.cs.CallTool(ctx, &gomcp.CallToolParams{Name: t.name, Arguments: arguments})
	if err != nil {
		return agents.AgentToolResult{}, fmt.Errorf("mcp: call %s: %w", t.name, err)
	}
	return agents.AgentToolResult{
		Content: []llm.Part{llm.NewTextPart(contentText(result.Content))},
		IsError: result.IsError,
	}, nil
}

// contentText flattens a tool result to text. Media content is replaced by a
// short marker since model messages here carry text only.
func contentText(content []gomcp.Content) string {
	var b strings.Builder
	for _, c := range content {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		switch c := c.(type) {
		case *gomcp.TextContent:
			b.WriteString(c.Text)
		case *gomcp.ImageContent:
			fmt.Fprintf(&b, "[image %s]", c.MIMEType)
		case *gomcp.AudioContent:
			fmt.Fprintf(&b, "[audio %s]", c.MIMEType)
		case *gomcp.ResourceLink:
			fmt.Fprintf(&b, "[resource %s]", c.URI)
		case *gomcp.EmbeddedResource:
			if c.Resource != nil && c.Resource.Text != "" {
				b.WriteString(c.Resource.Text)
			} else if c.Resource != nil {
				fmt.Fprintf(&b, "[resource %s]", c.Resource.URI)
			}
		}
	}
	return b.String()
}
