package registry

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gitlab.com/tozd/go/errors"
)

// MCPServer returns a go-sdk server exposing every registered tool. Tools
// registered afterwards are not included.
func (r *Registry) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.config.ServerInfo.Name,
		Version: r.config.ServerInfo.Version,
	}, nil)

	for _, tool := range r.ListAll(context.Background()) {
		t := tool.Tool
		t.Name = tool.ToolID()
		id := t.Name
		server.AddTool(&t, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := map[string]any{}
			if req.Params != nil && len(req.Params.Arguments) > 0 {
				if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
					return nil, errors.Errorf("%w: decoding arguments for %s: %v", ErrInvalidRequest, id, err)
				}
			}
			result, err := r.Execute(ctx, id, args)
			if err != nil {
				return &mcp.CallToolResult{
					IsError: true,
					Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				}, nil
			}
			return toolResult(result), nil
		})
	}
	return server
}

// ServeMCPStdio runs the go-sdk server over stdin and stdout until the
// client disconnects or ctx is cancelled.
func ServeMCPStdio(ctx context.Context, r *Registry) error {
	if err := r.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
		return errors.Errorf("serving mcp over stdio: %w", err)
	}
	return nil
}

// ServeMCPHTTP returns an http.Handler speaking the MCP streamable HTTP
// transport.
func ServeMCPHTTP(r *Registry) http.Handler {
	server := r.MCPServer()
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
