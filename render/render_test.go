package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/apidocs/index"
	"github.com/jonwraymond/apidocs/model"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		in   string
		want Detail
	}{
		{"full", DetailFull},
		{" FULL ", DetailFull},
		{"summary", DetailSummary},
		{"", DetailSummary},
		{"bogus", DetailSummary},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDetail(tt.in), "ParseDetail(%q)", tt.in)
	}
}

func TestFunctions_SingleRendersFull(t *testing.T) {
	fn := model.FunctionRecord{FullName: "C_A.B", Name: "B", Description: "desc", Source: model.SourceAPI}
	out := Functions([]model.FunctionRecord{fn}, DetailSummary)
	assert.True(t, strings.HasPrefix(out, "## C_A.B()"), out)
}

func TestFunctions_List(t *testing.T) {
	fns := []model.FunctionRecord{
		{FullName: "C_A.One", Description: strings.Repeat("x", 300)},
		{FullName: "C_A.Two", Deprecated: true},
	}
	out := Functions(fns, DetailSummary)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, out)
	assert.Equal(t, "Found 2 functions:", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "..."), lines[1])
	assert.Equal(t, "- C_A.Two() [deprecated]", lines[2])
}

func TestWidget(t *testing.T) {
	out := Widget(index.Widget{
		Name: "Frame",
		Class: &model.ClassRecord{
			Name:    "Frame",
			Parents: []string{"Region", "ScriptObject"},
			Fields:  []model.Field{{Name: "name", Optional: true, Type: "string"}},
			DocURL:  "https://docs/frame",
		},
		Methods: []model.FunctionRecord{{FullName: "Frame:Show", IsMethod: true}},
	})

	for _, want := range []string{
		"## Frame\n",
		"Inherits: Region, ScriptObject\n",
		"  - name?: string\n",
		"Docs: https://docs/frame\n",
		"Methods (1):\n- Frame:Show()\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWidget_MethodsOnly(t *testing.T) {
	out := Widget(index.Widget{Name: "Region"})
	assert.NotContains(t, out, "Inherits")
	assert.Contains(t, out, "Methods (0):")
}

func TestEnums_Sorted(t *testing.T) {
	out := Enums(map[string]model.EnumTable{
		"Enum.Zeta":  {Name: "Enum.Zeta"},
		"Enum.Alpha": {Name: "Enum.Alpha"},
	})
	assert.Less(t, strings.Index(out, "Enum.Alpha"), strings.Index(out, "Enum.Zeta"), out)
	assert.True(t, strings.HasPrefix(out, "Found 2 enums:"), out)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Namespaces (2):\n- C_A\n- C_B\n", Names("Namespaces", []string{"C_A", "C_B"}))
}

func TestStats_ThousandsSeparator(t *testing.T) {
	out := Stats(index.Stats{Functions: 12345, Events: 1700})
	assert.Contains(t, out, "functions:   12,345 (0 deprecated)")
	assert.Contains(t, out, "events:      1,700")
}

func TestStats(t *testing.T) {
	out := Stats(index.Stats{Functions: 10, Deprecated: 2, Widgets: 3, WidgetsWithMethods: 1, Version: "0.21.0"})
	for _, want := range []string{"version:     0.21.0", "functions:   10 (2 deprecated)", "widgets:     3 (1 with methods)"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "root:", "empty root is omitted")
}
