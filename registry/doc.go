// Package registry holds the MCP tools exposed by the apidocs server and
// serves them over several transports.
//
// A Registry keeps local tools keyed by tool ID, ranks them with the BM25
// searcher from package search and executes them through their handlers.
//
// Transports:
//   - ServeMCPStdio and ServeMCPHTTP use the official go-sdk server
//     (stdio and streamable HTTP)
//   - ServeStdio answers newline-delimited JSON-RPC on any reader/writer
//   - ServeHTTP answers one JSON-RPC request per POST
//   - ServeSSE answers a POST with a single Server-Sent Event
//
// Client dials a running server (http(s)://, sse://, stdio://) and calls
// its tools.
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{Name: "apidocs", Version: "1.0.0"},
//	})
//	defer reg.Close()
//
//	_ = reg.RegisterLocalFunc(
//	    "echo",
//	    "Echoes back the input",
//	    map[string]any{
//	        "type": "object",
//	        "properties": map[string]any{
//	            "message": map[string]any{"type": "string"},
//	        },
//	    },
//	    func(ctx context.Context, args map[string]any) (any, error) {
//	        return args["message"], nil
//	    },
//	    registry.WithReadOnly(),
//	)
//
//	_ = registry.ServeMCPStdio(ctx, reg)
package registry
