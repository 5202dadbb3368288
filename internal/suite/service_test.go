package suite

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/suitekeep/pkg/middleware"
)

type memoryStore struct {
	mu      sync.Mutex
	suites  map[int64]*Suite
	members []*Member
	nextID  int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{suites: map[int64]*Suite{}}
}

func (m *memoryStore) Create(ctx context.Context, ownerID int64, req *CreateSuiteRequest) (*Suite, error) {
	m.nextID++
	s := &Suite{ID: m.nextID, Name: req.Name, Description: req.Description, CreatedAt: time.Now()}
	m.suites[s.ID] = s
	m.members = append(m.members, &Member{SuiteID: s.ID, AccountID: ownerID, Role: RoleOwner, JoinedAt: time.Now()})
	return s, nil
}

func (m *memoryStore) GetByID(ctx context.Context, id int64) (*Suite, error) {
	return m.suites[id], nil
}

func (m *memoryStore) ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*Suite, int, error) {
	var out []*Suite
	for _, mem := range m.members {
		if mem.AccountID == accountID {
			out = append(out, m.suites[mem.SuiteID])
		}
	}
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memoryStore) Update(ctx context.Context, id int64, req *UpdateSuiteRequest) (*Suite, error) {
	s, ok := m.suites[id]
	if !ok {
		return nil, nil
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Description != nil {
		s.Description = req.Description
	}
	return s, nil
}

func (m *memoryStore) Delete(ctx context.Context, id int64) error {
	delete(m.suites, id)
	return nil
}

func (m *memoryStore) AddMember(ctx context.Context, suiteID, accountID int64, role Role) (*Member, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mem := range m.members {
		if mem.SuiteID == suiteID && mem.AccountID == accountID {
			return mem, false, nil
		}
	}
	mem := &Member{SuiteID: suiteID, AccountID: accountID, Role: role, JoinedAt: time.Now()}
	m.members = append(m.members, mem)
	return mem, true, nil
}

func (m *memoryStore) GetMember(ctx context.Context, suiteID, accountID int64) (*Member, error) {
	for _, mem := range m.members {
		if mem.SuiteID == suiteID && mem.AccountID == accountID {
			return mem, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) GetMembers(ctx context.Context, suiteID int64) ([]*Member, error) {
	var out []*Member
	for _, mem := range m.members {
		if mem.SuiteID == suiteID {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *memoryStore) RemoveMember(ctx context.Context, suiteID, accountID int64) error {
	for i, mem := range m.members {
		if mem.SuiteID == suiteID && mem.AccountID == accountID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return nil
		}
	}
	return ErrMemberNotFound
}

func TestCreateMakesCallerOwner(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	s, err := svc.Create(ctx, 1, &CreateSuiteRequest{Name: "  Winter Season "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.Name != "Winter Season" {
		t.Fatalf("name not trimmed: %q", s.Name)
	}
	if err := svc.RequireOwner(ctx, s.ID, 1); err != nil {
		t.Fatalf("creator should own suite: %v", err)
	}

	if _, err := svc.Create(ctx, 1, &CreateSuiteRequest{Name: " "}); !errors.Is(err, ErrInvalidSuiteName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)
	ctx := context.Background()
	s, _ := svc.Create(ctx, 1, &CreateSuiteRequest{Name: "Brass"})

	first, created, err := svc.Join(ctx, s.ID, 2, RoleMember)
	if err != nil || !created {
		t.Fatalf("join: created=%v err=%v", created, err)
	}
	second, created, err := svc.Join(ctx, s.ID, 2, RoleOwner)
	if err != nil || created {
		t.Fatalf("second join: created=%v err=%v", created, err)
	}
	if first != second || second.Role != RoleMember {
		t.Fatalf("second join should return existing membership, got %+v", second)
	}
	members, _ := store.GetMembers(ctx, s.ID)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	if _, _, err := svc.Join(ctx, 404, 2, RoleMember); !errors.Is(err, ErrSuiteNotFound) {
		t.Fatalf("expected suite not found, got %v", err)
	}
	if _, _, err := svc.Join(ctx, s.ID, 3, Role("GUEST")); !errors.Is(err, ErrInvalidMemberRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
}

func TestPermissions(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)
	ctx := context.Background()
	s, _ := svc.Create(ctx, 1, &CreateSuiteRequest{Name: "Strings"})
	svc.Join(ctx, s.ID, 2, RoleMember)
	svc.Join(ctx, s.ID, 3, RoleMember)

	name := "Renamed"
	if _, err := svc.Update(ctx, s.ID, 2, &UpdateSuiteRequest{Name: &name}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("member update: %v", err)
	}
	if _, _, err := svc.GetForMember(ctx, s.ID, 9); !errors.Is(err, ErrNotMember) {
		t.Fatalf("outsider get: %v", err)
	}
	if err := svc.RemoveMember(ctx, s.ID, 2, 3); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("member removing other: %v", err)
	}
	if err := svc.RemoveMember(ctx, s.ID, 1, 1); !errors.Is(err, ErrOwnerCannotLeave) {
		t.Fatalf("owner leaving: %v", err)
	}
	if err := svc.RemoveMember(ctx, s.ID, 2, 2); err != nil {
		t.Fatalf("member leaving: %v", err)
	}
	if err := svc.RemoveMember(ctx, s.ID, 1, 3); err != nil {
		t.Fatalf("owner removing member: %v", err)
	}

	owners, err := svc.Owners(ctx, s.ID)
	if err != nil || len(owners) != 1 || owners[0].AccountID != 1 {
		t.Fatalf("owners = %+v, %v", owners, err)
	}
}

func TestHandlerRequiresMembership(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)
	s, _ := svc.Create(context.Background(), 1, &CreateSuiteRequest{Name: "Choir"})

	r := chi.NewRouter()
	r.Use(middleware.Account)
	r.Mount("/suites", NewHandler(svc).Routes())

	get := func(account string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/suites/1", nil)
		if account != "" {
			req.Header.Set(middleware.AccountHeader, account)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := get("1"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), s.Name) {
		t.Fatalf("owner get: %d %s", rec.Code, rec.Body)
	}
	if rec := get("5"); rec.Code != http.StatusForbidden {
		t.Fatalf("outsider get: %d", rec.Code)
	}
	if rec := get(""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous get: %d", rec.Code)
	}
}

func TestHandlerCreate(t *testing.T) {
	svc := NewService(newMemoryStore())
	r := chi.NewRouter()
	r.Use(middleware.Account)
	r.Mount("/suites", NewHandler(svc).Routes())

	req := httptest.NewRequest(http.MethodPost, "/suites", strings.NewReader(`{"name":"Jazz Nights"}`))
	req.Header.Set(middleware.AccountHeader, "4")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}

	req = httptest.NewRequest(http.MethodPost, "/suites", strings.NewReader(`{"name":""}`))
	req.Header.Set(middleware.AccountHeader, "4")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty name: %d", rec.Code)
	}
}
