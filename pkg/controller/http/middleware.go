package http

import (
	"net/http"
	"strings"

	"github.com/dosecal/dosecal/pkg/domain/model/auth"
	"github.com/dosecal/dosecal/pkg/domain/types"
)

// identityMiddleware resolves the caller's identity for API requests.
// Token issuance happens outside this service: the bearer token is the
// caller's calendar provider access token, passed through as-is, and the
// user is named by the X-User-ID header set by the fronting proxy.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var accessToken string
		if authz := r.Header.Get("Authorization"); authz != "" {
			token, ok := strings.CutPrefix(authz, "Bearer ")
			if !ok {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}
			accessToken = token
		}

		id := &auth.Identity{
			UserID:      types.UserID(userID),
			Email:       r.Header.Get("X-User-Email"),
			AccessToken: accessToken,
		}

		ctx := auth.ContextWithIdentity(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
