// Package apitools exposes the index queries as MCP tools.
//
// Each tool wraps one index operation and answers with rendered text.
// A query that finds nothing answers with a "No ... found" message
// rather than an error; errors are reserved for missing arguments.
//
//	reg := registry.New(registry.Config{ServerInfo: registry.ServerInfo{Name: "apidocs"}})
//	if err := apitools.Register(reg, idx); err != nil {
//	    return err
//	}
//
// Run answers a tool call without a registry, which is how the CLI query
// command uses it.
package apitools
