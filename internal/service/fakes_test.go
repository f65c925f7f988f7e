package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
	"github.com/zoohub/zookeeper-hub/internal/domain/model"
	"github.com/zoohub/zookeeper-hub/internal/ports"

	"github.com/zoohub/zookeeper-hub/internal/data"
)

// In-memory repository fakes shared by the service tests.

type memUserRepo struct {
	mu     sync.Mutex
	seq    int
	users  map[string]*model.StaffUser
	failAll error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.StaffUser)}
}

func (m *memUserRepo) Create(_ context.Context, req *model.CreateStaffUserRequest, passwordHash string) (*model.StaffUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, req.Email) {
			return nil, data.ErrEmailExists
		}
	}
	m.seq++
	now := time.Now().UTC()
	u := &model.StaffUser{
		ID:           fmt.Sprintf("u-%d", m.seq),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*model.StaffUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	u, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.StaffUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, data.ErrUserNotFound
}

func (m *memUserRepo) List(_ context.Context, opts model.UsersListOptions) ([]*model.StaffUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := make([]*model.StaffUser, 0, len(m.users))
	for _, u := range m.users {
		if opts.Q != nil && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(*opts.Q)) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memUserRepo) UpdateRole(_ context.Context, id string, role string) (*model.StaffUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	u, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	u.Role = domainauth.Role(role)
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return false, m.failAll
	}
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

type memAnimalRepo struct {
	mu      sync.Mutex
	seq     int
	animals map[string]*model.Animal
	failAll error
}

func newMemAnimalRepo() *memAnimalRepo {
	return &memAnimalRepo{animals: make(map[string]*model.Animal)}
}

func (m *memAnimalRepo) Create(_ context.Context, req *model.CreateAnimalRequest) (*model.Animal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	m.seq++
	now := time.Now().UTC()
	a := &model.Animal{
		ID:           fmt.Sprintf("a-%d", m.seq),
		Name:         req.Name,
		Species:      req.Species,
		Age:          req.Age,
		Enclosure:    req.Enclosure,
		HealthStatus: req.HealthStatus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.animals[a.ID] = a
	cp := *a
	return &cp, nil
}

func (m *memAnimalRepo) GetByID(_ context.Context, id string) (*model.Animal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	a, ok := m.animals[id]
	if !ok {
		return nil, data.ErrAnimalNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAnimalRepo) List(_ context.Context, opts model.AnimalsListOptions) ([]*model.Animal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := make([]*model.Animal, 0, len(m.animals))
	for _, a := range m.animals {
		if opts.Q != nil {
			q := strings.ToLower(*opts.Q)
			if !strings.Contains(strings.ToLower(a.Name), q) && !strings.Contains(strings.ToLower(a.Species), q) {
				continue
			}
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memAnimalRepo) Update(_ context.Context, id string, req model.UpdateAnimalRequest) (*model.Animal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return nil, m.failAll
	}
	a, ok := m.animals[id]
	if !ok {
		return nil, data.ErrAnimalNotFound
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Species != nil {
		a.Species = *req.Species
	}
	if req.Age != nil {
		a.Age = *req.Age
	}
	if req.Enclosure != nil {
		a.Enclosure = *req.Enclosure
	}
	if req.HealthStatus != nil {
		a.HealthStatus = *req.HealthStatus
	}
	a.UpdatedAt = time.Now().UTC()
	cp := *a
	return &cp, nil
}

func (m *memAnimalRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return false, m.failAll
	}
	if _, ok := m.animals[id]; !ok {
		return false, nil
	}
	delete(m.animals, id)
	return true, nil
}

type memFeedingRepo struct {
	mu   sync.Mutex
	seq  int
	logs []*model.FeedingLog
}

func (m *memFeedingRepo) Create(_ context.Context, req *model.CreateFeedingLogRequest, keeperID string) (*model.FeedingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l := &model.FeedingLog{
		ID:          fmt.Sprintf("f-%d", m.seq),
		AnimalName:  req.AnimalName,
		FoodType:    req.FoodType,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
		KeeperID:    keeperID,
		FeedingTime: req.FeedingTime,
		CreatedAt:   time.Now().UTC(),
	}
	m.logs = append(m.logs, l)
	cp := *l
	return &cp, nil
}

func (m *memFeedingRepo) List(_ context.Context, opts model.FeedingLogsListOptions) ([]*model.FeedingLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.FeedingLog, 0, len(m.logs))
	for _, l := range m.logs {
		if opts.AnimalName != nil && l.AnimalName != *opts.AnimalName {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeedingTime.After(out[j].FeedingTime) })
	return page(out, opts.Limit, opts.Offset), nil
}

type memMedicalRepo struct {
	mu   sync.Mutex
	seq  int
	logs []*model.MedicalLog
}

func (m *memMedicalRepo) Create(_ context.Context, req *model.CreateMedicalLogRequest, vetID string) (*model.MedicalLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l := &model.MedicalLog{
		ID:               fmt.Sprintf("m-%d", m.seq),
		AnimalID:         req.AnimalID,
		Date:             req.Date,
		Diagnosis:        req.Diagnosis,
		Treatment:        req.Treatment,
		FollowUpRequired: req.FollowUpRequired,
		Notes:            req.Notes,
		VetID:            vetID,
		CreatedAt:        time.Now().UTC(),
	}
	m.logs = append(m.logs, l)
	cp := *l
	return &cp, nil
}

func (m *memMedicalRepo) List(_ context.Context, opts model.MedicalLogsListOptions) ([]*model.MedicalLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.MedicalLog, 0, len(m.logs))
	for _, l := range m.logs {
		if opts.AnimalID != nil && l.AnimalID != *opts.AnimalID {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, opts.Limit, opts.Offset), nil
}

// memSessionStore is an in-memory ports.SessionStore.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
	saveErr  error
	delErr   error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *memSessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memSessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, fmt.Errorf("session %q not found", id)
	}
	return sess, nil
}

func (m *memSessionStore) Delete(_ context.Context, id string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// fakeVerifier is a scripted ports.CredentialVerifier.
type fakeVerifier struct {
	identity domainauth.Identity
	err      error
}

func (f *fakeVerifier) Verify(context.Context, string, string) (domainauth.Identity, error) {
	if f.err != nil {
		return domainauth.Identity{}, f.err
	}
	return f.identity, nil
}

// fakeProvider is a scripted ports.AuthProvider.
type fakeProvider struct {
	authURL  string
	state    string
	nonce    string
	beginErr error

	identity    domainauth.Identity
	exchangeErr error
}

func (f *fakeProvider) Begin(context.Context, ports.BeginInput) (string, string, string, error) {
	if f.beginErr != nil {
		return "", "", "", f.beginErr
	}
	return f.authURL, f.state, f.nonce, nil
}

func (f *fakeProvider) Exchange(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
	if f.exchangeErr != nil {
		return domainauth.Identity{}, f.exchangeErr
	}
	return f.identity, nil
}

// memCache is an in-memory core.CacheRepository ignoring TTLs.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	gets    int
}

func newMemCache() *memCache { return &memCache{entries: make(map[string][]byte)} }

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.entries[key] = append([]byte(nil), value...)
	return nil
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memCache) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok, nil
}

func (m *memCache) Health(context.Context) error { return nil }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
