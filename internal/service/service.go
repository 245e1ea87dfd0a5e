// Package service holds the business operations behind the HTTP API. Services validate
// input, enforce ownership using the caller id taken from a verified token, and translate
// store failures into domain errors.
package service

import (
	"fmt"
	"log/slog"

	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/validation"
)

// validate is the shared request validator.
var validate = validation.New()

// internalError logs the cause and returns a client-safe INTERNAL error.
func internalError(logger *slog.Logger, op string, err error) error {
	if logger != nil {
		logger.Error("operation failed", "op", op, "error", err)
	}
	return domainerrors.Internal("Internal server error").WithCause(fmt.Errorf("%s: %w", op, err))
}

func discardLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
