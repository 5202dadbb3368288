package account

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/suitekeep/pkg/middleware"
)

type memoryStore struct {
	accounts []*Account
}

func (m *memoryStore) Create(ctx context.Context, req *CreateAccountRequest) (*Account, error) {
	a := &Account{
		ID:          int64(len(m.accounts) + 1),
		DisplayName: req.DisplayName,
		Email:       req.Email,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	m.accounts = append(m.accounts, a)
	return a, nil
}

func (m *memoryStore) GetByID(ctx context.Context, id int64) (*Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, nil
}

func TestCreateAccount(t *testing.T) {
	svc := NewService(&memoryStore{})
	ctx := context.Background()

	a, err := svc.Create(ctx, &CreateAccountRequest{DisplayName: " Ada ", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.DisplayName != "Ada" {
		t.Fatalf("display name not trimmed: %q", a.DisplayName)
	}

	_, err = svc.Create(ctx, &CreateAccountRequest{DisplayName: "Ada 2", Email: "ADA@example.com"})
	if !errors.Is(err, ErrEmailAlreadyInUse) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}

	_, err = svc.Create(ctx, &CreateAccountRequest{DisplayName: "Bob", Email: "not-an-email"})
	if !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("expected invalid account error, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(&memoryStore{})
	if _, err := svc.GetByID(context.Background(), 9); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMeEndpoint(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)
	if _, err := svc.Create(context.Background(), &CreateAccountRequest{DisplayName: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Account)
	r.Mount("/accounts", NewHandler(svc).Routes())

	req := httptest.NewRequest(http.MethodGet, "/accounts/me", nil)
	req.Header.Set(middleware.AccountHeader, "1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"email":"ada@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without account header, got %d", rec.Code)
	}
}
