package server

import (
	"context"
	"net/http"
	"strings"

	"MuseFM/core/auth"
	"MuseFM/logger"
	"MuseFM/model"
)

// contextKey is a private type for request context keys.
type contextKey string

const claimsContextKey contextKey = "authClaims"

// AuthResult classifies an authorization decision.
type AuthResult int

const (
	// AuthOK means the caller may proceed.
	AuthOK AuthResult = iota
	// AuthUnauthenticated means no valid session was presented.
	AuthUnauthenticated
	// AuthForbidden means the session lacks the required privilege.
	AuthForbidden
)

// Authorize is the single ownership guard: the caller must be the owner of
// the targeted resource or hold the admin role.
func Authorize(claims *auth.Claims, ownerID int64) AuthResult {
	if claims == nil {
		return AuthUnauthenticated
	}
	if claims.UserID == ownerID || claims.Role == model.RoleAdmin {
		return AuthOK
	}
	return AuthForbidden
}

// ClaimsFromContext extracts the session claims set by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// AuthMiddleware checks for a valid bearer token and puts its claims in the
// request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ParseToken(h.cfg.JWTSecret, parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// AdminMiddleware requires the caller's stored role to be admin. The stored
// role decides, not the token snapshot, so a demotion takes effect on the
// next request. Must run inside AuthMiddleware.
func (h *APIHandler) AdminMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := h.userRepo.GetUserByID(claims.UserID)
		if err != nil {
			logger.Error("Admin check failed to load user", logger.Int64("userID", claims.UserID), logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if user == nil || user.Role != model.RoleAdmin {
			writeError(w, http.StatusForbidden, "Forbidden: Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	}
}
