package apitools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/jonwraymond/apidocs/index"
	"github.com/jonwraymond/apidocs/model"
	"github.com/jonwraymond/apidocs/registry"
	"github.com/jonwraymond/apidocs/search"
)

func fn(fullName, description string) model.FunctionRecord {
	ns, name, method := model.SplitQualified(fullName)
	return model.FunctionRecord{
		FullName:    fullName,
		Namespace:   ns,
		Name:        name,
		IsMethod:    method,
		Description: description,
		Source:      model.SourceAPI,
	}
}

func testIndex(t *testing.T) *index.Index {
	t.Helper()
	searcher := search.NewBM25Searcher(search.BM25Config{})
	t.Cleanup(func() { _ = searcher.Close() })

	b := index.NewBuilder(index.Options{Searcher: searcher})
	b.Put(fn("C_Map.GetMapInfo", "Returns map information."))
	b.Put(fn("C_Item.GetItemCount", "Counts items in your bags."))

	old := fn("IsSpellKnown", "Whether the player knows a spell.")
	old.Deprecated = true
	old.ReplacedBy = "C_SpellBook.IsSpellKnown"
	b.Put(old)

	b.SetClass(model.ClassRecord{Name: "Frame", Parents: []string{"Region"}, Source: model.SourceWidget})
	show := fn("Frame:Show", "Shows the frame.")
	b.Put(show)
	b.AddMethod("Frame", show.FullName)

	b.AddEnums(model.EnumTable{Name: "Enum.ItemQuality", Members: []model.EnumMember{{Name: "Poor", Value: 0}, {Name: "Common", Value: 1}}})
	b.AddEvents(model.EventRecord{Name: "PLAYER_LOGIN"}, model.EventRecord{Name: "PLAYER_LOGOUT", Payload: "reason"})
	b.AddCVars("autoLootDefault")
	b.SetCorpus("/corpus", "1.0.0")
	return b.Build()
}

func TestTools_Schemas(t *testing.T) {
	all := Tools()
	require.Len(t, all, 12)

	seen := map[string]bool{}
	for _, tool := range all {
		assert.False(t, seen[tool.Name], "duplicate tool %s", tool.Name)
		seen[tool.Name] = true

		schema := tool.InputSchema()
		assert.Equal(t, "object", schema["type"], tool.Name)
		assert.NotNil(t, schema["properties"], tool.Name)
	}

	lookupTool, ok := lookup("lookup_api")
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, lookupTool.InputSchema()["required"])

	statsTool, ok := lookup("api_stats")
	require.True(t, ok)
	_, hasRequired := statsTool.InputSchema()["required"]
	assert.False(t, hasRequired)
}

func TestRun(t *testing.T) {
	idx := testIndex(t)

	tests := []struct {
		tool     string
		args     map[string]any
		contains []string
	}{
		{"lookup_api", map[string]any{"name": "GetMapInfo"}, []string{"## C_Map.GetMapInfo()", "Returns map information."}},
		{"lookup_api", map[string]any{"name": "Nope"}, []string{`No functions found matching "Nope".`}},
		{"search_api", map[string]any{"query": "bags"}, []string{"C_Item.GetItemCount"}},
		{"list_deprecated", nil, []string{"IsSpellKnown"}},
		{"list_deprecated", map[string]any{"filter": "C_Map"}, []string{`No deprecated functions found matching "C_Map".`}},
		{"get_namespace", map[string]any{"namespace": "c_item"}, []string{"C_Item.GetItemCount"}},
		{"get_namespace", map[string]any{"namespace": "C_None"}, []string{`No namespace found matching "C_None".`}},
		{"list_namespaces", nil, []string{"Namespaces (2):", "- C_Item", "- C_Map"}},
		{"get_widget", map[string]any{"name": "frame"}, []string{"## Frame", "Inherits: Region", "Frame:Show()"}},
		{"get_widget", map[string]any{"name": "Button"}, []string{`No widget found matching "Button".`}},
		{"list_widgets", nil, []string{"Widgets (1):", "- Frame"}},
		{"get_enum", map[string]any{"name": "ItemQuality"}, []string{"## Enum.ItemQuality", "Common = 1"}},
		{"search_enums", map[string]any{"query": "quality"}, []string{"Found 1 enums:"}},
		{"search_enums", map[string]any{"query": "zzz"}, []string{`No enums found matching "zzz".`}},
		{"get_event", map[string]any{"name": "player_login"}, []string{"- PLAYER_LOGIN: (no payload)"}},
		{"get_event", map[string]any{"name": "PLAYER_"}, []string{"Found 2 events:", "- PLAYER_LOGOUT: reason"}},
		{"api_stats", nil, []string{"version:     1.0.0", "functions:   4 (1 deprecated)", "cvars:       1"}},
		{"keyword_search", map[string]any{"query": "bags", "limit": float64(5)}, []string{"C_Item.GetItemCount"}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			out, err := Run(idx, tt.tool, tt.args)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	idx := testIndex(t)

	_, err := Run(idx, "no_such_tool", nil)
	assert.True(t, errors.Is(err, ErrUnknownTool))

	_, err = Run(idx, "lookup_api", map[string]any{"name": "  "})
	assert.True(t, errors.Is(err, ErrMissingArgument))

	_, err = Run(idx, "keyword_search", map[string]any{"query": "bags", "limit": "many"})
	assert.Error(t, err)
}

func TestPositionalArgs(t *testing.T) {
	got, err := PositionalArgs("lookup_api", []string{"GetMapInfo", "full"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "GetMapInfo", "detail": "full"}, got)

	_, err = PositionalArgs("api_stats", []string{"extra"})
	assert.Error(t, err)

	_, err = PositionalArgs("missing", nil)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestRegister(t *testing.T) {
	idx := testIndex(t)
	reg := registry.New(registry.Config{ServerInfo: registry.ServerInfo{Name: "apidocs", Version: "test"}})
	t.Cleanup(func() { _ = reg.Close() })

	require.NoError(t, Register(reg, idx))
	assert.Len(t, reg.ListAll(context.Background()), 12)

	tool, err := reg.GetTool(context.Background(), "get_enum")
	require.NoError(t, err)
	require.NotNil(t, tool.Annotations)
	assert.True(t, tool.Annotations.ReadOnlyHint)
	assert.Equal(t, "Get enum", tool.Title)

	out, err := reg.Execute(context.Background(), "get_enum", map[string]any{"name": "Enum.ItemQuality"})
	require.NoError(t, err)
	assert.Contains(t, out, "Poor = 0")

	_, err = reg.Execute(context.Background(), "get_enum", map[string]any{})
	assert.True(t, errors.Is(err, registry.ErrExecutionFailed))

	err = Register(reg, idx)
	assert.True(t, errors.Is(err, registry.ErrInvalidRequest), "second registration should collide")
}

func TestRegister_WithoutIndex(t *testing.T) {
	reg := registry.New(registry.Config{ServerInfo: registry.ServerInfo{Name: "apidocs", Version: "test"}})
	t.Cleanup(func() { _ = reg.Close() })

	require.NoError(t, Register(reg, nil))

	ranked, err := reg.Search(context.Background(), "widget", 12)
	require.NoError(t, err)
	require.NotEmpty(t, ranked)
	assert.Contains(t, []string{"get_widget", "list_widgets"}, ranked[0].Name)

	_, err = reg.Execute(context.Background(), "api_stats", nil)
	require.True(t, errors.Is(err, registry.ErrExecutionFailed))
	assert.Contains(t, err.Error(), ErrNoIndex.Error())
}
