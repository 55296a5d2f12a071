// Package config resolves where the annotation corpus lives.
//
// Values are layered, later sources winning:
//
//  1. Default: the vscode-wow-api repository layout
//  2. LoadFile: a YAML file
//  3. ApplyEnv: APIDOCS_ROOT, then the legacy WOW_API_PATH
//  4. command-line flags, applied by the caller
//
// Resolve is the only check performed. A missing root yields a
// *ConfigurationError wrapping ErrRootNotFound; optional files named by the
// Layout are never checked here.
package config
