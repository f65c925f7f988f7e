package httpx

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/service"
)

var errNoSession = errors.New("session not found")

// fakeAuthService implements AuthServiceInterface backed by a map.
type fakeAuthService struct {
	mu       sync.Mutex
	sessions map[string]*domainauth.Session

	signInErr   error
	beginResult *service.BeginLoginResult
	beginErr    error
	completeErr error
	loggedOut   []string
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{sessions: make(map[string]*domainauth.Session)}
}

func (f *fakeAuthService) add(s *domainauth.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = s
}

func (f *fakeAuthService) SignInWithCredentials(_ context.Context, email, _ string) (*domainauth.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	s := testSession("cred-session", domainauth.RoleZookeeper)
	s.Email = email
	f.add(s)
	return s, nil
}

func (f *fakeAuthService) BeginLogin(_ context.Context, _ string) (*service.BeginLoginResult, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	if f.beginResult != nil {
		return f.beginResult, nil
	}
	return &service.BeginLoginResult{AuthURL: "https://idp.example/authorize", State: "state-1", Nonce: "nonce-1"}, nil
}

func (f *fakeAuthService) CompleteLogin(_ context.Context, _ service.CompleteLoginInput) (*domainauth.Session, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	s := testSession("sso-session", domainauth.RoleVet)
	f.add(s)
	return s, nil
}

func (f *fakeAuthService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, errNoSession
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	f.loggedOut = append(f.loggedOut, sessionID)
	return nil
}

func testSession(id string, role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:        id,
		UserID:    "user-" + id,
		FirstName: "Priya",
		LastName:  "Nair",
		Email:     "priya@zoo.test",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// countingMetrics records guard decision counts by tag.
type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counts: make(map[string]int64)}
}

func (m *countingMetrics) Count(_ string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[tags["decision"]] += value
}

func (m *countingMetrics) get(decision string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[decision]
}
