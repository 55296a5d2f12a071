package registry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/jonwraymond/apidocs/search"
)

var objectSchema = map[string]any{"type": "object"}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := New(Config{
		ServerInfo: ServerInfo{Name: "test-server", Version: "1.0.0"},
	})
	t.Cleanup(func() { _ = reg.Close() })
	return reg
}

func nopHandler(ctx context.Context, args map[string]any) (any, error) {
	return nil, nil
}

func TestNew(t *testing.T) {
	reg := newTestRegistry(t)

	assert.Equal(t, "test-server", reg.config.ServerInfo.Name)
	assert.Empty(t, reg.ListAll(context.Background()))
}

func TestRegisterLocal(t *testing.T) {
	reg := newTestRegistry(t)

	callCount := 0
	handler := func(ctx context.Context, args map[string]any) (any, error) {
		callCount++
		return map[string]any{"echo": args["message"]}, nil
	}

	err := reg.RegisterLocalFunc(
		"echo",
		"Echoes back input",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
			},
		},
		handler,
		WithNamespace("test"),
		WithTags("echo", "utility"),
	)
	require.NoError(t, err)

	result, err := reg.Execute(context.Background(), "test:echo", map[string]any{"message": "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, map[string]any{"echo": "hello"}, result)
}

func TestRegisterLocal_Duplicate(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.RegisterLocalFunc("dup", "first", objectSchema, nopHandler))
	err := reg.RegisterLocalFunc("dup", "second", objectSchema, nopHandler)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRegisterLocal_Invalid(t *testing.T) {
	reg := newTestRegistry(t)

	err := reg.RegisterLocalFunc("", "no name", objectSchema, nopHandler)
	assert.ErrorIs(t, err, ErrInvalidRequest, "empty name")

	err = reg.RegisterLocalFunc("nohandler", "desc", objectSchema, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest, "nil handler")
}

func TestExecute_Errors(t *testing.T) {
	reg := newTestRegistry(t)
	boom := errors.New("boom")
	require.NoError(t, reg.RegisterLocalFunc("fail", "Always fails", objectSchema, func(ctx context.Context, args map[string]any) (any, error) {
		return nil, boom
	}))

	_, err := reg.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrToolNotFound)

	_, err = reg.Execute(context.Background(), "fail", nil)
	require.ErrorIs(t, err, ErrExecutionFailed)
	assert.Contains(t, err.Error(), "boom")
}

func TestSearch(t *testing.T) {
	reg := New(Config{
		SearchConfig: &search.BM25Config{NameBoost: 3},
		ServerInfo:   ServerInfo{Name: "test", Version: "1.0.0"},
	})
	defer func() { _ = reg.Close() }()

	require.NoError(t, reg.RegisterLocalFunc("get_enum", "Look up an enum table", objectSchema, nopHandler))
	require.NoError(t, reg.RegisterLocalFunc("get_event", "Look up a game event", objectSchema, nopHandler, WithTags("events")))

	results, err := reg.Search(context.Background(), "enum", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "get_enum", results[0].Name)

	results, err = reg.Search(context.Background(), "transmog", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGetTool(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterLocalFunc("stats", "Index stats", objectSchema, nopHandler,
		WithVersion("1.2.0"), WithReadOnly(), WithTitle("Stats")))

	tool, err := reg.GetTool(context.Background(), "stats")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", tool.Version)
	assert.Equal(t, "Stats", tool.Title)
	require.NotNil(t, tool.Annotations)
	assert.True(t, tool.Annotations.ReadOnlyHint)

	_, err = reg.GetTool(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestStats(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.RegisterLocalFunc("tool1", "Tool 1", objectSchema, nopHandler, WithNamespace("a")))
	require.NoError(t, reg.RegisterLocalFunc("tool2", "Tool 2", objectSchema, nopHandler, WithNamespace("a")))
	require.NoError(t, reg.RegisterLocalFunc("tool3", "Tool 3", objectSchema, nopHandler))

	assert.Equal(t, RegistryStats{TotalTools: 3, Namespaces: 1}, reg.Stats())
}

// ============================================================
// JSON-RPC handling
// ============================================================

func TestHandleRequest_Initialize(t *testing.T) {
	reg := newTestRegistry(t)

	resp := reg.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	require.Nil(t, resp.Error)

	resultMap, ok := resp.Result.(map[string]any)
	require.True(t, ok, "result is %T", resp.Result)
	assert.Equal(t, model.MCPVersion, resultMap["protocolVersion"])
	serverInfo, ok := resultMap["serverInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test-server", serverInfo["name"])
}

func TestHandleRequest_Ping(t *testing.T) {
	reg := newTestRegistry(t)

	resp := reg.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 7, Method: "ping"})
	assert.Nil(t, resp.Error)
	assert.Equal(t, 7, resp.ID)
}

func TestHandleRequest_ToolsList(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterLocalFunc("echo", "Echoes input", objectSchema, nopHandler, WithTitle("Echo"), WithReadOnly()))

	resp := reg.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})
	require.Nil(t, resp.Error)

	tools, ok := resp.Result.(map[string]any)["tools"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	assert.Equal(t, "echo", tools[0]["name"])
	assert.Equal(t, "Echo", tools[0]["title"])

	ann, ok := tools[0]["annotations"].(*mcp.ToolAnnotations)
	require.True(t, ok, "annotations are %T", tools[0]["annotations"])
	assert.True(t, ann.ReadOnlyHint)
}

func TestHandleRequest_ToolsCall(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterLocalFunc("process", "Processes input", objectSchema, func(ctx context.Context, args map[string]any) (any, error) {
		return map[string]any{"result": args["input"]}, nil
	}))
	require.NoError(t, reg.RegisterLocalFunc("text", "Returns text", objectSchema, func(ctx context.Context, args map[string]any) (any, error) {
		return "plain text", nil
	}))

	call := func(name string, args map[string]any) MCPResponse {
		params, err := json.Marshal(map[string]any{"name": name, "arguments": args})
		require.NoError(t, err)
		return reg.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	}

	resp := call("process", map[string]any{"input": "test"})
	require.Nil(t, resp.Error)
	res, ok := resp.Result.(*mcp.CallToolResult)
	require.True(t, ok, "result is %T", resp.Result)
	assert.Equal(t, map[string]any{"result": "test"}, res.StructuredContent)

	resp = call("text", nil)
	res, ok = resp.Result.(*mcp.CallToolResult)
	require.True(t, ok)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "plain text", text.Text)
	assert.Nil(t, res.StructuredContent, "text results carry no structured content")
}

func TestHandleRequest_ToolsCall_Errors(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterLocalFunc("fail", "Fails", objectSchema, func(ctx context.Context, args map[string]any) (any, error) {
		return nil, errors.New("nope")
	}))

	tests := []struct {
		name   string
		params string
		code   int
	}{
		{"not_found", `{"name":"missing","arguments":{}}`, ErrCodeToolNotFound},
		{"exec_failed", `{"name":"fail"}`, ErrCodeToolExecFailed},
		{"bad_params", `{"name":`, ErrCodeInvalidParams},
		{"missing_name", `{"arguments":{}}`, ErrCodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := reg.HandleRequest(context.Background(), MCPRequest{
				JSONRPC: "2.0",
				ID:      1,
				Method:  "tools/call",
				Params:  json.RawMessage(tt.params),
			})
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	reg := newTestRegistry(t)

	resp := reg.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 1, Method: "unknown/method"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMethodNotFound, resp.Error.Code)
}

// ============================================================
// Transports
// ============================================================

func TestServeStdio(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterLocalFunc("echo", "Echo", objectSchema, func(ctx context.Context, args map[string]any) (any, error) {
		return args["message"], nil
	}))

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{not json`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`,
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, ServeStdio(context.Background(), reg, in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, out.String())

	var parseErr MCPResponse
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &parseErr))
	require.NotNil(t, parseErr.Error)
	assert.Equal(t, ErrCodeParseError, parseErr.Error.Code)
	assert.Contains(t, lines[2], `"text":"hi"`)
}

func TestServeStdio_Cancelled(t *testing.T) {
	reg := newTestRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	err := ServeStdio(ctx, reg, in, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServeHTTP(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterLocalFunc("echo", "Echo", objectSchema, func(ctx context.Context, args map[string]any) (any, error) {
		return args, nil
	}))

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	body := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp, err := http.Post(srv.URL, "application/json", body)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&mcpResp))
	require.Nil(t, mcpResp.Error)
	resultMap, ok := mcpResp.Result.(map[string]any)
	require.True(t, ok, "result is %T", mcpResp.Result)
	tools, ok := resultMap["tools"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, tools)
}

func TestServeHTTP_Notification(t *testing.T) {
	reg := newTestRegistry(t)
	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestServeHTTP_MethodNotAllowed(t *testing.T) {
	reg := newTestRegistry(t)
	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServeHTTP_InvalidJSON(t *testing.T) {
	reg := newTestRegistry(t)
	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", bytes.NewBufferString(`{invalid json`))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	_ = json.NewDecoder(resp.Body).Decode(&mcpResp)
	require.NotNil(t, mcpResp.Error)
	assert.Equal(t, ErrCodeParseError, mcpResp.Error.Code)
}

func TestServeSSE(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.RegisterLocalFunc("echo", "Echo", objectSchema, func(ctx context.Context, args map[string]any) (any, error) {
		return args, nil
	}))

	srv := httptest.NewServer(ServeSSE(reg))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "application/json", bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	scanner := bufio.NewScanner(resp.Body)
	var dataLine string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	require.NoError(t, scanner.Err())
	require.NotEmpty(t, dataLine, "expected SSE data line")

	var mcpResp MCPResponse
	require.NoError(t, json.Unmarshal([]byte(dataLine), &mcpResp))
	require.Nil(t, mcpResp.Error)
	tools, ok := mcpResp.Result.(map[string]any)["tools"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, tools)
}
