package config

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrRootNotFound reports that the corpus root is unset or not a directory.
var ErrRootNotFound = errors.Base("corpus root not found")

// ConfigurationError is the startup-fatal error returned when the corpus
// cannot be located. Hint tells the operator how to fix it.
type ConfigurationError struct {
	Root string
	Hint string
	Err  error
}

func (e *ConfigurationError) Error() string {
	msg := e.Err.Error()
	if e.Root != "" {
		msg = fmt.Sprintf("%s: %s", e.Root, msg)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
