package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

func TestNewRouter_PublicAndGuardedRoutes(t *testing.T) {
	router, err := NewRouter(RouterServices{Auth: newFakeAuthService()})
	require.NoError(t, err)

	// public landing page
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ZooKeeper Hub")

	// login form
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// health probe
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// guarded pages redirect signed-out visitors to login
	for _, path := range []string{"/dashboard", "/feeding", "/medical", "/animals", "/users", "/research"} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusSeeOther, rec.Code, "path %s", path)
		assert.Contains(t, rec.Header().Get("Location"), "/login?redirect_uri=", "path %s", path)
	}

	// guarded API returns JSON 401
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/research/query", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// unknown paths get the error page
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRouter_FeedingAndMedicalAreRoleExclusive(t *testing.T) {
	svc := newFakeAuthService()
	svc.add(testSession("adm", domainauth.RoleAdmin))
	svc.add(testSession("keeper", domainauth.RoleZookeeper))
	svc.add(testSession("vet", domainauth.RoleVet))
	router, err := NewRouter(RouterServices{Auth: svc})
	require.NoError(t, err)

	// Feeding belongs to zookeepers and medical to vets; everyone else,
	// admins included, is sent to the fallback page.
	cases := []struct {
		path      string
		sessionID string
	}{
		{"/feeding", "adm"},
		{"/feeding", "vet"},
		{"/medical", "adm"},
		{"/medical", "keeper"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, tc.path, nil), tc.sessionID)
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusSeeOther, rec.Code, "%s as %s", tc.path, tc.sessionID)
		assert.Equal(t, "/", rec.Header().Get("Location"), "%s as %s", tc.path, tc.sessionID)
	}
}
