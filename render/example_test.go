package render_test

import (
	"fmt"

	"github.com/jonwraymond/apidocs/index"
	"github.com/jonwraymond/apidocs/model"
	"github.com/jonwraymond/apidocs/render"
)

func ExampleFunction() {
	fn := model.FunctionRecord{
		FullName:      "IsSpellKnown",
		Name:          "IsSpellKnown",
		Params:        []model.Param{{Name: "spellID", Type: "number"}, {Name: "isPet", Optional: true, Type: "boolean"}},
		Returns:       []model.Return{{Type: "boolean", Name: "known"}},
		Description:   "Returns true if the player knows the spell.",
		Deprecated:    true,
		DeprecatedIn:  "11.0.0",
		ReplacedBy:    "C_SpellBook.IsSpellInSpellBook",
		ReplacedByURL: "https://x",
		Flavors:       []model.Flavor{model.FlavorMainline, model.FlavorMists},
		Source:        model.SourceDeprecated,
		File:          "Deprecated_11_0_0.lua",
		Line:          3,
	}
	fmt.Print(render.Function(fn, render.DetailFull))
	fmt.Println(render.Function(fn, render.DetailSummary))
	// Output:
	// ## IsSpellKnown(spellID, isPet?)
	//
	// DEPRECATED in 11.0.0. Use C_SpellBook.IsSpellInSpellBook instead (https://x).
	//
	// Returns true if the player knows the spell.
	//
	// Parameters:
	//   - spellID: number
	//   - isPet?: boolean
	//
	// Returns:
	//   - boolean known
	//
	// Flavors: mainline, mists
	// Source: deprecated (Deprecated_11_0_0.lua:3)
	// - IsSpellKnown(spellID, isPet?) [deprecated]: Returns true if the player knows the spell.
}

func ExampleEnum() {
	fmt.Print(render.Enum(index.EnumMatch{
		Name: "Enum.Foo",
		Table: model.EnumTable{
			Name:    "Enum.Foo",
			Members: []model.EnumMember{{Name: "A", Value: 0}, {Name: "B", Value: 1}},
		},
	}))
	// Output:
	// ## Enum.Foo
	//   A = 0
	//   B = 1
}

func ExampleEvents() {
	fmt.Print(render.Events([]model.EventRecord{{Name: "PLAYER_LOGOUT"}}, true))
	fmt.Print(render.Events([]model.EventRecord{
		{Name: "PLAYER_LOGIN", Payload: "arg1, arg2"},
		{Name: "PLAYER_LOGOUT"},
	}, false))
	// Output:
	// - PLAYER_LOGOUT: (no payload)
	// Found 2 events:
	// - PLAYER_LOGIN: arg1, arg2
	// - PLAYER_LOGOUT
}

func ExampleNoMatch() {
	fmt.Println(render.NoMatch("function", "Nope"))
	fmt.Println(render.NoMatch("deprecated functions", ""))
	// Output:
	// No function found matching "Nope".
	// No deprecated functions found.
}
