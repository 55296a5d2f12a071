package apitools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/jonwraymond/apidocs/index"
	"github.com/jonwraymond/apidocs/model"
	"github.com/jonwraymond/apidocs/registry"
	"github.com/jonwraymond/apidocs/render"
)

var (
	// ErrUnknownTool is returned by Run for a name no tool uses.
	ErrUnknownTool = errors.Base("unknown tool")

	// ErrMissingArgument is returned when a required argument is absent
	// or empty.
	ErrMissingArgument = errors.Base("missing argument")

	// ErrNoIndex is returned by tools registered without an index.
	ErrNoIndex = errors.Base("no index loaded")
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Description string
	Type        string // "string" or "integer"
	Required    bool
}

// Tool is a named query over the index.
type Tool struct {
	Name        string
	Title       string
	Description string
	Params      []Param
	run         func(idx *index.Index, a args) (string, error)
}

// InputSchema returns the JSON Schema object describing the tool's
// arguments.
func (t Tool) InputSchema() map[string]any {
	props := make(map[string]any, len(t.Params))
	required := []string{}
	for _, p := range t.Params {
		typ := p.Type
		if typ == "" {
			typ = "string"
		}
		props[p.Name] = map[string]any{
			"type":        typ,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var detailParam = Param{
	Name:        "detail",
	Description: `"summary" (default) or "full"`,
}

var tools = []Tool{
	{
		Name:        "lookup_api",
		Title:       "Look up API function",
		Description: "Look up a function by name. Accepts qualified names (C_Map.GetMapInfo), short names or fragments.",
		Params: []Param{
			{Name: "name", Description: "Function name", Required: true},
			detailParam,
		},
		run: func(idx *index.Index, a args) (string, error) {
			name, err := a.required("name")
			if err != nil {
				return "", err
			}
			return functions(idx.LookupByName(name), a.detail(), "functions", name), nil
		},
	},
	{
		Name:        "search_api",
		Title:       "Search API functions",
		Description: "Find functions whose name or description contains the query.",
		Params: []Param{
			{Name: "query", Description: "Text to look for", Required: true},
			detailParam,
		},
		run: func(idx *index.Index, a args) (string, error) {
			query, err := a.required("query")
			if err != nil {
				return "", err
			}
			return functions(idx.Search(query), a.detail(), "functions", query), nil
		},
	},
	{
		Name:        "list_deprecated",
		Title:       "List deprecated functions",
		Description: "List deprecated functions, optionally limited to a namespace.",
		Params: []Param{
			{Name: "filter", Description: "Namespace or name fragment"},
		},
		run: func(idx *index.Index, a args) (string, error) {
			filter := a.str("filter")
			return functions(idx.ListDeprecated(filter), render.DetailSummary, "deprecated functions", filter), nil
		},
	},
	{
		Name:        "get_namespace",
		Title:       "Get namespace",
		Description: "List the functions of a namespace such as C_Map.",
		Params: []Param{
			{Name: "namespace", Description: "Namespace name", Required: true},
			detailParam,
		},
		run: func(idx *index.Index, a args) (string, error) {
			ns, err := a.required("namespace")
			if err != nil {
				return "", err
			}
			fns := idx.GetNamespace(ns)
			if len(fns) == 0 {
				return render.NoMatch("namespace", ns), nil
			}
			return render.Functions(fns, a.detail()), nil
		},
	},
	{
		Name:        "list_namespaces",
		Title:       "List namespaces",
		Description: "List every namespace in the index.",
		run: func(idx *index.Index, a args) (string, error) {
			return names(idx.ListNamespaces(), "Namespaces", "namespaces"), nil
		},
	},
	{
		Name:        "get_widget",
		Title:       "Get widget",
		Description: "Show a widget class with its inheritance, fields and methods.",
		Params: []Param{
			{Name: "name", Description: "Class name such as Frame", Required: true},
		},
		run: func(idx *index.Index, a args) (string, error) {
			name, err := a.required("name")
			if err != nil {
				return "", err
			}
			w, ok := idx.GetWidget(name)
			if !ok {
				return render.NoMatch("widget", name), nil
			}
			return render.Widget(w), nil
		},
	},
	{
		Name:        "list_widgets",
		Title:       "List widgets",
		Description: "List every widget class in the index.",
		run: func(idx *index.Index, a args) (string, error) {
			return names(idx.ListWidgets(), "Widgets", "widgets"), nil
		},
	},
	{
		Name:        "get_enum",
		Title:       "Get enum",
		Description: "Show the members of an enum table such as Enum.ItemQuality.",
		Params: []Param{
			{Name: "name", Description: "Enum name", Required: true},
		},
		run: func(idx *index.Index, a args) (string, error) {
			name, err := a.required("name")
			if err != nil {
				return "", err
			}
			m, ok := idx.GetEnum(name)
			if !ok {
				return render.NoMatch("enum", name), nil
			}
			return render.Enum(m), nil
		},
	},
	{
		Name:        "search_enums",
		Title:       "Search enums",
		Description: "List enum tables whose name contains the query.",
		Params: []Param{
			{Name: "query", Description: "Enum name fragment", Required: true},
		},
		run: func(idx *index.Index, a args) (string, error) {
			query, err := a.required("query")
			if err != nil {
				return "", err
			}
			tables := idx.SearchEnums(query)
			if len(tables) == 0 {
				return render.NoMatch("enums", query), nil
			}
			return render.Enums(tables), nil
		},
	},
	{
		Name:        "get_event",
		Title:       "Get event",
		Description: "Show a game event and its payload, or events containing the name.",
		Params: []Param{
			{Name: "name", Description: "Event name such as PLAYER_LOGIN", Required: true},
		},
		run: func(idx *index.Index, a args) (string, error) {
			name, err := a.required("name")
			if err != nil {
				return "", err
			}
			events, exact := idx.GetEvent(name)
			if len(events) == 0 {
				return render.NoMatch("events", name), nil
			}
			return render.Events(events, exact), nil
		},
	},
	{
		Name:        "api_stats",
		Title:       "API index statistics",
		Description: "Report counts of indexed functions, namespaces, widgets, enums, events and cvars.",
		run: func(idx *index.Index, a args) (string, error) {
			return render.Stats(idx.Stats()), nil
		},
	},
	{
		Name:        "keyword_search",
		Title:       "Keyword search",
		Description: "Rank functions by relevance to free-text keywords.",
		Params: []Param{
			{Name: "query", Description: "Keywords", Required: true},
			{Name: "limit", Description: "Maximum results (default 20)", Type: "integer"},
			detailParam,
		},
		run: func(idx *index.Index, a args) (string, error) {
			query, err := a.required("query")
			if err != nil {
				return "", err
			}
			limit, err := a.integer("limit")
			if err != nil {
				return "", err
			}
			fns, err := idx.KeywordSearch(query, limit)
			if err != nil {
				return "", errors.Errorf("keyword search: %w", err)
			}
			return functions(fns, a.detail(), "functions", query), nil
		},
	},
}

// Tools returns the tool definitions in registration order.
func Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

func lookup(name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Register adds every tool to reg as a read-only local tool answering
// from idx. With a nil idx the tools can be listed and searched but every
// call fails with ErrNoIndex.
func Register(reg *registry.Registry, idx *index.Index) error {
	for _, t := range tools {
		handler := func(ctx context.Context, raw map[string]any) (any, error) {
			if idx == nil {
				return nil, errors.Errorf("%w: %s", ErrNoIndex, t.Name)
			}
			return t.run(idx, args(raw))
		}
		if err := reg.RegisterLocalFunc(t.Name, t.Description, t.InputSchema(), handler,
			registry.WithTitle(t.Title),
			registry.WithTags("wow", "api"),
			registry.WithReadOnly(),
		); err != nil {
			return errors.Errorf("registering %s: %w", t.Name, err)
		}
	}
	return nil
}

// Run executes the named tool directly against idx.
func Run(idx *index.Index, name string, raw map[string]any) (string, error) {
	t, ok := lookup(name)
	if !ok {
		return "", errors.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.run(idx, args(raw))
}

// PositionalArgs maps positional values onto the tool's parameters in
// declaration order.
func PositionalArgs(name string, values []string) (map[string]any, error) {
	t, ok := lookup(name)
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if len(values) > len(t.Params) {
		return nil, errors.Errorf("%s takes at most %d arguments, got %d", name, len(t.Params), len(values))
	}
	out := make(map[string]any, len(values))
	for i, v := range values {
		out[t.Params[i].Name] = v
	}
	return out, nil
}

func functions(fns []model.FunctionRecord, detail render.Detail, kind, query string) string {
	if len(fns) == 0 {
		return render.NoMatch(kind, query)
	}
	return render.Functions(fns, detail)
}

func names(list []string, title, kind string) string {
	if len(list) == 0 {
		return render.NoMatch(kind, "")
	}
	return render.Names(title, list)
}

type args map[string]any

func (a args) str(key string) string {
	switch v := a[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func (a args) required(key string) (string, error) {
	v := a.str(key)
	if v == "" {
		return "", errors.Errorf("%w: %s", ErrMissingArgument, key)
	}
	return v, nil
}

func (a args) detail() render.Detail {
	return render.ParseDetail(a.str("detail"))
}

func (a args) integer(key string) (int, error) {
	switch v := a[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.Errorf("%s must be an integer: %w", key, err)
		}
		return n, nil
	default:
		return 0, errors.Errorf("%s must be an integer, got %T", key, v)
	}
}
