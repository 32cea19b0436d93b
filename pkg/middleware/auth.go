package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nkhandel/bookstock/pkg/auth"
	"github.com/nkhandel/bookstock/pkg/response"
)

type claimsKey struct{}

// Auth verifies the bearer token before the protected handler runs. A
// missing, malformed, or invalid token short-circuits with a 401 envelope;
// the downstream handler never executes, so a rejected request can have no
// side effects. The verified claims are stored in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the verified token claims stored by Auth, or nil
// when the request did not pass through it.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}
