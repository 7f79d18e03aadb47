package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/auth"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/response"
)

// Identity is the resolved caller stored in the request context after
// authentication.
type Identity struct {
	UserID      uint
	Username    string
	Email       string
	IsVendor    bool
	IsSuperuser bool
}

// IsCustomer mirrors models.User.IsCustomer for the resolved identity.
func (id Identity) IsCustomer() bool {
	return !id.IsVendor && !id.IsSuperuser
}

// UserResolver turns validated claims plus the raw bearer token into an
// Identity. Implementations must reject tokens that do not match the
// currently-stored token for the user (logout revocation).
type UserResolver func(ctx context.Context, claims *auth.Claims, rawToken string) (Identity, error)

type identityKey struct{}

// Auth returns middleware that authenticates the bearer token, cross-checks
// it through resolve, and stores the resulting Identity in the context.
// Missing, malformed, expired, or revoked credentials are all 401.
func Auth(resolve UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" || token == r.Header.Get("Authorization") {
				response.Error(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			claims, err := auth.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					response.Error(w, http.StatusUnauthorized, "Token expired")
					return
				}
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			identity, err := resolve(r.Context(), claims, token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromCtx returns the authenticated Identity, if any.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity stores an Identity in ctx. Exposed for tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}
