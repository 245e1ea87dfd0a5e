package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/notesapp/notes-server/internal/errors"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUserID contextKey = "user_id"

// requireAuth verifies the bearer token of operations that declare a security
// requirement. It runs before huma reads the request body, so an unauthenticated
// caller gets 401 whatever the body holds.
func (s *Server) requireAuth(ctx huma.Context, next func(huma.Context)) {
	if op := ctx.Operation(); op == nil || len(op.Security) == 0 {
		next(ctx)
		return
	}

	identity, err := s.services.Auth.IdentifyRequest(ctx.Header("Authorization"))
	if err != nil {
		status := http.StatusUnauthorized
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			status = domainErr.HTTPStatus()
		}
		_ = huma.WriteErr(s.api, ctx, status, "unauthorized", err)
		return
	}

	next(huma.WithValue(ctx, contextKeyUserID, identity.UserID))
}

// getUserID extracts the authenticated user ID from the request context.
// Returns an empty string outside operations guarded by requireAuth.
func getUserID(ctx context.Context) string {
	userID, _ := ctx.Value(contextKeyUserID).(string)
	return userID
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
