package middleware

import (
	"net/http"

	"maison-be/internal/auth"
	"maison-be/internal/user"
	"maison-be/internal/utils"
)

// AuthMiddleware resolves the caller's identity into the request context.
// Requests without a valid token pass through unauthenticated; handlers that
// require identity reject them individually.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and non-admin users
// with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if utils.GetUserRoleFromContext(r.Context()) != "ADMIN" {
			utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
