package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/middleware"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/service"

	"github.com/google/uuid"
)

type claimsKey struct{}

// RequireBearer verifies the session token in the Authorization header and
// stores its claims on the request context. Any failure is a 401.
func RequireBearer(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if len(raw) < len("Bearer ") || !strings.EqualFold(raw[:len("Bearer ")], "bearer ") {
				slog.Warn("auth missing bearer", middleware.LogAttrs(r.Context())...)
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			claims, err := tokens.VerifySessionToken(strings.TrimSpace(raw[len("Bearer "):]))
			if err != nil {
				slog.Warn("auth invalid token", append(middleware.LogAttrs(r.Context()), "error", err)...)
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*service.SessionClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*service.SessionClaims)
	return c, ok && c != nil
}

func userIDFromContext(ctx context.Context) (domain.UserID, error) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}
