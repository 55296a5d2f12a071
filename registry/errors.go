package registry

import "gitlab.com/tozd/go/errors"

// Sentinel errors for consistent error handling.
var (
	ErrToolNotFound        = errors.Base("tool not found")
	ErrExecutionFailed     = errors.Base("tool execution failed")
	ErrInvalidRequest      = errors.Base("invalid request")
	ErrBackendNotConnected = errors.Base("backend not connected")
)

// MCP JSON-RPC 2.0 error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeToolNotFound   = -32001
	ErrCodeToolExecFailed = -32002
)
