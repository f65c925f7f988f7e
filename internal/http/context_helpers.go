package httpx

import (
	"context"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

// sessionKey keys the authenticated session in a request context. It is
// unexported so only this package can attach one.
type sessionKey struct{}

// SetSessionInContext attaches session to ctx. A nil session leaves ctx
// untouched.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the session and whether one is
// present.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

// GetSessionFromContext returns the session or nil when the request is
// unauthenticated.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	s, _ := GetUserSessionFromContext(ctx)
	return s
}
