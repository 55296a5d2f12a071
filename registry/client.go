package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gitlab.com/tozd/go/errors"
)

// ClientConfig describes a connection to a running MCP server.
type ClientConfig struct {
	// URL is the MCP server URL (http(s)://, sse://, stdio://).
	URL string
	// Headers are optional HTTP headers for authenticated servers.
	Headers map[string]string
	// MaxRetries controls reconnect attempts for streamable HTTP transport.
	MaxRetries int
	// Transport overrides URL handling when provided (useful for tests).
	Transport mcp.Transport
}

// Client calls tools on a remote MCP server.
type Client struct {
	config  ClientConfig
	mu      sync.RWMutex
	session *mcp.ClientSession
}

// Dial connects to the server described by cfg.
func Dial(ctx context.Context, cfg ClientConfig) (*Client, error) {
	c := &Client{config: cfg}
	transport, err := c.transport()
	if err != nil {
		return nil, err
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "apidocs-client"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, errors.Errorf("connecting to %s: %w", cfg.URL, err)
	}
	c.session = session
	return c, nil
}

// ListTools returns the server's tools.
func (c *Client) ListTools(ctx context.Context) ([]model.Tool, error) {
	session, err := c.active()
	if err != nil {
		return nil, err
	}
	res, err := session.ListTools(ctx, nil)
	if err != nil {
		return nil, errors.Errorf("listing tools: %w", err)
	}
	tools := make([]model.Tool, 0, len(res.Tools))
	for _, tool := range res.Tools {
		if tool == nil {
			continue
		}
		tools = append(tools, model.Tool{Tool: *tool})
	}
	return tools, nil
}

// Call invokes a tool. A single text block is returned as a string and
// structured content as-is.
func (c *Client) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	session, err := c.active()
	if err != nil {
		return nil, err
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, errors.Errorf("%w: %v", ErrExecutionFailed, err)
	}
	if result == nil {
		return nil, nil
	}
	if result.IsError {
		return nil, errors.Errorf("%w: %s", ErrExecutionFailed, toolResultError(result))
	}
	return toolResultValue(result), nil
}

// Close ends the session.
func (c *Client) Close() error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return nil
	}
	return session.Close()
}

func (c *Client) active() (*mcp.ClientSession, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil, ErrBackendNotConnected
	}
	return c.session, nil
}

func (c *Client) transport() (mcp.Transport, error) {
	if c.config.Transport != nil {
		return c.config.Transport, nil
	}
	if strings.TrimSpace(c.config.URL) == "" {
		return nil, errors.Errorf("%w: server URL is required", ErrInvalidRequest)
	}

	parsed, err := url.Parse(c.config.URL)
	if err != nil {
		return nil, errors.Errorf("%w: invalid server URL: %v", ErrInvalidRequest, err)
	}

	httpClient := headerClient(c.config.Headers)

	switch parsed.Scheme {
	case "http", "https":
		return &mcp.StreamableClientTransport{
			Endpoint:   c.config.URL,
			HTTPClient: httpClient,
			MaxRetries: c.config.MaxRetries,
		}, nil
	case "sse":
		parsed.Scheme = "http"
		return &mcp.SSEClientTransport{
			Endpoint:   parsed.String(),
			HTTPClient: httpClient,
		}, nil
	case "stdio":
		return &mcp.StdioTransport{}, nil
	default:
		return nil, errors.Errorf("%w: unsupported URL scheme %q", ErrInvalidRequest, parsed.Scheme)
	}
}

// headerClient returns an http.Client that adds headers to requests
// lacking them, or nil when there is nothing to add.
func headerClient(headers map[string]string) *http.Client {
	set := make(http.Header, len(headers))
	for k, v := range headers {
		if k = strings.TrimSpace(k); k != "" {
			set.Set(k, v)
		}
	}
	if len(set) == 0 {
		return nil
	}
	return &http.Client{Transport: headerTransport{base: http.DefaultTransport, headers: set}}
}

type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (h headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, vs := range h.headers {
		if req.Header.Get(k) == "" {
			req.Header[k] = vs
		}
	}
	return h.base.RoundTrip(req)
}

func toolResultValue(result *mcp.CallToolResult) any {
	if result == nil {
		return nil
	}
	if result.StructuredContent != nil {
		return result.StructuredContent
	}
	if len(result.Content) == 1 {
		if text, ok := result.Content[0].(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return result.Content
}

func toolResultError(result *mcp.CallToolResult) string {
	if result == nil {
		return "tool execution failed"
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	if result.StructuredContent != nil {
		return fmt.Sprintf("%v", result.StructuredContent)
	}
	return "tool execution failed"
}
