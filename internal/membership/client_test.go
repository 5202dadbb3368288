package membership

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/suitekeep/pkg/middleware"
	"github.com/fkhayef/suitekeep/pkg/response"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(middleware.Account)
	r.With(middleware.RequireAccount).Post("/api/v1/invitations/{token}/join", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "token") {
		case "good":
			response.JSON(w, http.StatusOK, map[string]any{
				"suite_id":   4,
				"suite_name": "Spring Tour",
				"role":       "MEMBER",
			})
		case "stale":
			response.Gone(w, "invitation has expired")
		default:
			response.NotFound(w, "invitation not found")
		}
	})
	r.Get("/api/v1/suites", func(w http.ResponseWriter, r *http.Request) {
		response.JSONWithMeta(w, http.StatusOK, []map[string]any{{"id": 4, "name": "Spring Tour"}}, response.NewMeta(1, 100, 1))
	})
	r.Post("/api/v1/suites/{id}/invitations", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "4" {
			response.Forbidden(w, "not a member of this suite")
			return
		}
		response.JSON(w, http.StatusCreated, map[string]any{
			"token": "tok",
			"link":  "suitekeep://invite/tok",
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestJoinSuite(t *testing.T) {
	srv := newServer(t)
	c := NewClient(srv.URL+"/", 2, 5*time.Second)

	joined, err := c.JoinSuite(context.Background(), "good")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.SuiteID != 4 || joined.SuiteName != "Spring Tour" || joined.Role != "MEMBER" {
		t.Fatalf("unexpected join result: %+v", joined)
	}
}

func TestJoinSuiteErrors(t *testing.T) {
	srv := newServer(t)
	c := NewClient(srv.URL, 2, 5*time.Second)

	_, err := c.JoinSuite(context.Background(), "stale")
	if !errors.Is(err, ErrInvitationExpired) {
		t.Fatalf("expected ErrInvitationExpired, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusGone || apiErr.Code != "GONE" {
		t.Fatalf("expected wrapped APIError, got %v", err)
	}

	if _, err := c.JoinSuite(context.Background(), "missing"); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound, got %v", err)
	}

	anonymous := NewClient(srv.URL, 0, 5*time.Second)
	_, err = anonymous.JoinSuite(context.Background(), "good")
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
}

func TestListSuitesAndCreateInvitation(t *testing.T) {
	srv := newServer(t)
	c := NewClient(srv.URL, 2, 5*time.Second)

	suites, err := c.ListSuites(context.Background())
	if err != nil {
		t.Fatalf("list suites: %v", err)
	}
	if len(suites) != 1 || suites[0].Name != "Spring Tour" {
		t.Fatalf("unexpected suites: %+v", suites)
	}

	inv, err := c.CreateInvitation(context.Background(), 4)
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	if inv.Link != "suitekeep://invite/tok" {
		t.Fatalf("unexpected link: %q", inv.Link)
	}

	var apiErr *APIError
	if _, err := c.CreateInvitation(context.Background(), 5); !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestJoinSuiteUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 2, time.Second)
	if _, err := c.JoinSuite(context.Background(), "good"); err == nil {
		t.Fatalf("expected transport error")
	}
}
