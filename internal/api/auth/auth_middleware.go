package auth

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-user-admin/internal/api"
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

// Authenticate is middleware that requires a valid bearer token and places the
// resulting actor in the request context.
func Authenticate(service AuthService, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				l.WarnContext(ctx, "Rejected request without bearer token", slog.String("path", r.URL.Path))
				api.WriteError(w, r, err)
				return
			}

			actor, err := service.Authenticate(ctx, token)
			if err != nil {
				l.WarnContext(ctx, "Token validation failed", slog.Any("error", err))
				api.WriteError(w, r, err)
				return
			}

			ctx = types.ContextWithActor(ctx, actor)
			l.DebugContext(ctx, "Authentication successful", slog.String("actor_id", actor.ID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
