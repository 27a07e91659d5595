// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"context"
)

// WithContext returns a new context with the provided logger.
func WithContext(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextKey, logger)
}

// FromContext retrieves the logger from the context. If no logger is found,
// a null logger that discards every message is returned.
func FromContext(ctx context.Context) Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey).(Logger); ok {
			return logger
		}
	}

	return nullLogger
}

// Unexported key type so the logger entry never collides with another
// package's context values.
type contextKeyType struct{}

var contextKey = contextKeyType{}
