package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MuseFM/core/auth"
	"MuseFM/model"
)

func TestAuthorize(t *testing.T) {
	owner := &auth.Claims{UserID: 7, Role: model.RoleUser}
	stranger := &auth.Claims{UserID: 8, Role: model.RoleUser}
	admin := &auth.Claims{UserID: 9, Role: model.RoleAdmin}

	assert.Equal(t, AuthOK, Authorize(owner, 7))
	assert.Equal(t, AuthForbidden, Authorize(stranger, 7))
	assert.Equal(t, AuthOK, Authorize(admin, 7))
	assert.Equal(t, AuthUnauthenticated, Authorize(nil, 7))
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	env := newTestEnv()
	next := env.handler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	next(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	env := newTestEnv()
	next := env.handler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	next(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewarePassesClaims(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(1, "alice", model.RoleUser)

	token, err := env.handler.issueToken(user)
	require.NoError(t, err)

	var got *auth.Claims
	next := env.handler.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	next(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, "alice", got.Username)
}

// A stale admin token must not grant access after demotion: the middleware
// re-reads the stored role on every request.
func TestAdminMiddlewareUsesStoredRole(t *testing.T) {
	env := newTestEnv()
	admin := env.seedUser(1, "root", model.RoleAdmin)

	called := false
	next := env.handler.AdminMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil), admin)
	rec := httptest.NewRecorder()
	next(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	// Demote in the database; the old claims still say admin.
	require.NoError(t, env.users.UpdateUserRole(admin.ID, model.RoleUser))

	called = false
	req = asUser(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil), admin)
	rec = httptest.NewRecorder()
	next(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestAdminMiddlewareRejectsRegularUser(t *testing.T) {
	env := newTestEnv()
	user := env.seedUser(2, "bob", model.RoleUser)

	next := env.handler.AdminMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil), user)
	rec := httptest.NewRecorder()
	next(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
