package registry

import (
	"context"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolHandler executes a local tool. args holds the decoded "arguments"
// object of the call. A string result is sent as a single text block;
// anything else is sent as JSON.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// LocalToolOption adjusts a tool before it is registered.
type LocalToolOption func(*model.Tool)

// WithNamespace prefixes the tool ID with ns.
func WithNamespace(ns string) LocalToolOption {
	return func(t *model.Tool) { t.Namespace = ns }
}

// WithTags attaches normalized search tags.
func WithTags(tags ...string) LocalToolOption {
	return func(t *model.Tool) { t.Tags = model.NormalizeTags(tags) }
}

// WithVersion records the tool version.
func WithVersion(v string) LocalToolOption {
	return func(t *model.Tool) { t.Version = v }
}

// WithTitle sets the display title shown by MCP clients.
func WithTitle(title string) LocalToolOption {
	return func(t *model.Tool) { t.Title = title }
}

// WithReadOnly marks the tool as free of side effects.
func WithReadOnly() LocalToolOption {
	return func(t *model.Tool) {
		if t.Annotations == nil {
			t.Annotations = &mcp.ToolAnnotations{}
		}
		t.Annotations.ReadOnlyHint = true
	}
}

func newLocalTool(name, description string, inputSchema map[string]any, opts []LocalToolOption) model.Tool {
	tool := model.Tool{
		Tool: mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: inputSchema,
		},
	}
	for _, opt := range opts {
		opt(&tool)
	}
	return tool
}
