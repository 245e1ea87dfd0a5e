// Package response writes JSON responses for requests that never reach a huma operation:
// unknown routes, wrong methods and recovered panics. Bodies share the
// {"code", "message", "details"} shape of API errors.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	domainerrors "github.com/notesapp/notes-server/internal/errors"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// Error writes an error body with the status implied by code.
func Error(w http.ResponseWriter, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, code.HTTPStatus(), ErrorBody{Code: string(code), Message: message}, logger)
}

// NotFound answers requests for unknown routes.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		Error(w, domainerrors.CodeNotFound, "Route not found", logger)
	}
}

// MethodNotAllowed answers requests whose path exists under another method.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusMethodNotAllowed, ErrorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "Method not allowed",
		}, logger)
	}
}

// Recoverer turns a panic into a logged INTERNAL error response.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				if logger != nil {
					logger.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
				}
				Error(w, domainerrors.CodeInternal, "Internal server error", logger)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
