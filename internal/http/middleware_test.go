package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

func okHandler(t *testing.T, wantSession bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := GetUserSessionFromContext(r.Context())
		assert.Equal(t, wantSession, present)
		w.WriteHeader(http.StatusOK)
	})
}

func withSessionCookie(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: id})
	return req
}

func TestGuard_RequirePage_Unauthenticated(t *testing.T) {
	guard := &Guard{Sessions: newFakeAuthService()}
	h := guard.RequirePage(domainauth.RoleAdmin)(okHandler(t, true))

	req := httptest.NewRequest(http.MethodGet, "/users?limit=5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?redirect_uri=%2Fusers%3Flimit%3D5", rec.Header().Get("Location"))
}

func TestGuard_RequirePage_WrongRoleFallsBack(t *testing.T) {
	svc := newFakeAuthService()
	svc.add(testSession("s1", domainauth.RoleZookeeper))
	metrics := newCountingMetrics()
	guard := &Guard{Sessions: svc, Metrics: metrics}
	h := guard.RequirePage(domainauth.RoleAdmin)(okHandler(t, true))

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/users", nil), "s1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, int64(1), metrics.get("redirect_fallback"))
}

func TestGuard_RequirePage_AllowedRolePasses(t *testing.T) {
	svc := newFakeAuthService()
	svc.add(testSession("s1", domainauth.RoleVet))
	guard := &Guard{Sessions: svc}
	h := guard.RequirePage(domainauth.RoleAdmin, domainauth.RoleVet)(okHandler(t, true))

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/medical", nil), "s1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard_RequirePage_EmptyAllowAdmitsAnySession(t *testing.T) {
	svc := newFakeAuthService()
	unassigned := testSession("s1", domainauth.RoleUnassigned)
	svc.add(unassigned)
	guard := &Guard{Sessions: svc}
	h := guard.RequirePage()(okHandler(t, true))

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/", nil), "s1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard_RequirePage_UnassignedRoleIsUnauthorized(t *testing.T) {
	svc := newFakeAuthService()
	svc.add(testSession("s1", domainauth.RoleUnassigned))
	guard := &Guard{Sessions: svc, FallbackPath: "/welcome"}
	h := guard.RequirePage(domainauth.RoleZookeeper)(okHandler(t, true))

	req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/feeding", nil), "s1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/welcome", rec.Header().Get("Location"))
}

func TestGuard_RequireAPI_StatusCodes(t *testing.T) {
	svc := newFakeAuthService()
	svc.add(testSession("keeper", domainauth.RoleZookeeper))

	guard := &Guard{Sessions: svc}
	h := guard.RequireAPI(domainauth.RoleAdmin)(okHandler(t, true))

	// unauthenticated
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/research/query", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// wrong role
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withSessionCookie(httptest.NewRequest(http.MethodPost, "/api/research/query", nil), "keeper"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuard_OptionalSession(t *testing.T) {
	svc := newFakeAuthService()
	svc.add(testSession("s1", domainauth.RoleAdmin))
	guard := &Guard{Sessions: svc}

	// with cookie: session present in context
	h := guard.OptionalSession()(okHandler(t, true))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSessionCookie(httptest.NewRequest(http.MethodGet, "/", nil), "s1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// without cookie: request still passes
	h = guard.OptionalSession()(okHandler(t, false))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSafeRedirectPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/feeding", "/feeding"},
		{"/users?limit=5", "/users?limit=5"},
		{"https://evil.example/phish", "/"},
		{"//evil.example", "/"},
		{"no-leading-slash", "/"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, safeRedirectPath(tc.in), "input %q", tc.in)
	}
}
