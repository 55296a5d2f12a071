package registry

import (
	"context"
	"strings"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
	"gitlab.com/tozd/go/errors"

	"github.com/jonwraymond/apidocs/index"
	"github.com/jonwraymond/apidocs/search"
)

// Config configures a Registry.
type Config struct {
	SearchConfig *search.BM25Config
	ServerInfo   ServerInfo
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

type localTool struct {
	tool    model.Tool
	handler ToolHandler
}

// Registry holds locally handled MCP tools and serves them over the
// JSON-RPC handlers in this package or a go-sdk server.
type Registry struct {
	mu       sync.RWMutex
	config   Config
	tools    map[string]localTool
	order    []string
	searcher *search.BM25Searcher
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	searchCfg := search.BM25Config{}
	if cfg.SearchConfig != nil {
		searchCfg = *cfg.SearchConfig
	}
	return &Registry{
		config:   cfg,
		tools:    make(map[string]localTool),
		searcher: search.NewBM25Searcher(searchCfg),
	}
}

// RegisterLocal registers a tool with a local execution handler. Tool
// IDs must be unique.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return errors.Errorf("%w: invalid tool: %v", ErrInvalidRequest, err)
	}
	if handler == nil {
		return errors.Errorf("%w: tool %s has no handler", ErrInvalidRequest, tool.Name)
	}

	id := tool.ToolID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[id]; exists {
		return errors.Errorf("%w: tool %s already registered", ErrInvalidRequest, id)
	}
	r.tools[id] = localTool{tool: tool, handler: handler}
	r.order = append(r.order, id)
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	return r.RegisterLocal(newLocalTool(name, description, inputSchema, opts), handler)
}

// ListAll returns all registered tools in registration order.
func (r *Registry) ListAll(ctx context.Context) []model.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]model.Tool, 0, len(r.order))
	for _, id := range r.order {
		tools = append(tools, r.tools[id].tool)
	}
	return tools
}

// GetTool returns a tool by ID.
func (r *Registry) GetTool(ctx context.Context, id string) (model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lt, ok := r.tools[id]
	if !ok {
		return model.Tool{}, errors.Errorf("%w: %s", ErrToolNotFound, id)
	}
	return lt.tool, nil
}

// Search ranks registered tools by name, namespace, description and tags.
func (r *Registry) Search(ctx context.Context, query string, limit int) ([]model.Tool, error) {
	tools := r.ListAll(ctx)
	docs := make([]index.SearchDoc, 0, len(tools))
	byID := make(map[string]model.Tool, len(tools))
	for _, tool := range tools {
		id := tool.ToolID()
		byID[id] = tool
		text := strings.Join(append([]string{tool.Name, tool.Namespace, tool.Description}, tool.Tags...), " ")
		docs = append(docs, index.SearchDoc{
			ID:      id,
			DocText: strings.ToLower(strings.ReplaceAll(text, "_", " ")),
			Summary: index.Summary{
				ID:               id,
				Name:             tool.Name,
				Namespace:        tool.Namespace,
				ShortDescription: tool.Description,
			},
		})
	}

	summaries, err := r.searcher.Search(query, limit, docs)
	if err != nil {
		return nil, errors.Errorf("searching tools: %w", err)
	}
	out := make([]model.Tool, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, byID[s.ID])
	}
	return out, nil
}

// Execute runs a tool by ID with the given arguments. Handler failures
// wrap ErrExecutionFailed.
func (r *Registry) Execute(ctx context.Context, id string, args map[string]any) (any, error) {
	r.mu.RLock()
	lt, ok := r.tools[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrToolNotFound, id)
	}
	if args == nil {
		args = map[string]any{}
	}
	result, err := lt.handler(ctx, args)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %v", ErrExecutionFailed, id, err)
	}
	return result, nil
}

// Close releases the tool search index.
func (r *Registry) Close() error {
	return r.searcher.Close()
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	TotalTools int
	Namespaces int
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	namespaces := map[string]struct{}{}
	for _, lt := range r.tools {
		if lt.tool.Namespace != "" {
			namespaces[lt.tool.Namespace] = struct{}{}
		}
	}
	return RegistryStats{
		TotalTools: len(r.tools),
		Namespaces: len(namespaces),
	}
}
