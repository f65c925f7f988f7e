package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

// sessionCookieName is the cookie carrying the server-side session ID.
const sessionCookieName = "session_id"

// GuardMetrics receives one count per access guard evaluation.
type GuardMetrics interface {
	Count(name string, value int64, tags map[string]string)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush forwards flushes so streaming handlers keep working behind the logger.
func (w *respWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionReader resolves a session ID to a live session.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// Guard evaluates page access for the pages it wraps. Every protected
// route shares one Guard so the login redirect, the fallback target, and
// the metric names stay consistent.
type Guard struct {
	Sessions SessionReader
	Metrics  GuardMetrics // optional
	// FallbackPath receives authenticated users whose role is not allowed.
	// Defaults to "/".
	FallbackPath string
}

// RequirePage wraps a page handler with the access guard. An empty allow
// list admits any authenticated session.
func (g *Guard) RequirePage(allow ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := g.stateForRequest(r)
			decision := domainauth.Decide(state, allow)
			g.count(decision, r.URL.Path)

			switch decision {
			case domainauth.DecisionRender:
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), state.Session)))
			case domainauth.DecisionRedirectLogin:
				redirectToLogin(w, r)
			case domainauth.DecisionRedirectFallback:
				http.Redirect(w, r, g.fallback(), http.StatusSeeOther)
			case domainauth.DecisionPending:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "auth state not resolved yet", http.StatusServiceUnavailable)
			}
		})
	}
}

// RequireAPI wraps a JSON endpoint with the access guard. Unauthenticated
// callers get 401, unauthorized roles get 403.
func (g *Guard) RequireAPI(allow ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := g.stateForRequest(r)
			decision := domainauth.Decide(state, allow)
			g.count(decision, r.URL.Path)

			switch decision {
			case domainauth.DecisionRender:
				next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), state.Session)))
			case domainauth.DecisionRedirectLogin:
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			case domainauth.DecisionRedirectFallback:
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
			case domainauth.DecisionPending:
				w.Header().Set("Retry-After", "1")
				WriteError(w, ErrorParams{
					Code:    http.StatusServiceUnavailable,
					ErrCode: "auth_pending",
					Err:     errors.New("auth state not resolved yet"),
				})
			}
		})
	}
}

// OptionalSession adds the session to the request context when present but
// never blocks the request. Public pages use it to greet signed-in staff.
func (g *Guard) OptionalSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := g.sessionForRequest(r); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// stateForRequest builds the resolved AuthState for one request. Role
// resolution happens inside GetSession, so the state is never pending here.
func (g *Guard) stateForRequest(r *http.Request) domainauth.AuthState {
	session := g.sessionForRequest(r)
	if session == nil {
		return domainauth.AuthState{}
	}
	return domainauth.AuthState{Session: session, Role: session.Role}
}

func (g *Guard) sessionForRequest(r *http.Request) *domainauth.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	session, err := g.Sessions.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

func (g *Guard) fallback() string {
	if g.FallbackPath != "" {
		return g.FallbackPath
	}
	return "/"
}

func (g *Guard) count(decision domainauth.Decision, page string) {
	if g.Metrics == nil {
		return
	}
	g.Metrics.Count("guard.decision", 1, map[string]string{
		"decision": decision.String(),
		"page":     page,
	})
}

// redirectToLogin redirects browser requests to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	http.Redirect(w, r, "/login?redirect_uri="+url.QueryEscape(redirectPath), http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
