package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/user"
	"github.com/dira-homes/dira/internal/logger"
)

const notAuthenticated = "Not authenticated"

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

type sessionKey struct{}

type session struct {
	user  *user.User
	token string
}

// TokenAuthMiddleware rejects requests without a live session token. The
// token is read from the ?token= query parameter, falling back to an
// "Authorization: Bearer" header.
func TokenAuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeError(w, http.StatusForbidden, notAuthenticated)
				return
			}

			u, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					writeError(w, http.StatusForbidden, notAuthenticated)
					return
				}
				logger.FromContext(r.Context()).Error("authentication failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := logger.With(r.Context(), zap.String("user_id", u.ID))
			ctx = context.WithValue(ctx, sessionKey{}, session{user: u, token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	const bearerPrefix = "Bearer "
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(h[len(bearerPrefix):])
}

// sessionFrom returns the session placed by TokenAuthMiddleware.
func sessionFrom(ctx context.Context) (session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session)
	return s, ok
}
