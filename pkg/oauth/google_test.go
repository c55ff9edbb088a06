package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestService() *GoogleOAuthService {
	return NewGoogleOAuthService(GoogleOAuthConfig{
		ClientID:           "client",
		ClientSecret:       "secret",
		RedirectURL:        "http://localhost:8080/api/v1/auth/google/callback",
		FrontendSuccessURL: "http://localhost:5173/auth/callback",
		FrontendErrorURL:   "http://localhost:5173/login",
		StateSecret:        "state-secret",
	})
}

func TestState(t *testing.T) {
	s := newTestService()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	state := s.NewState()
	if err := s.VerifyState(state); err != nil {
		t.Fatalf("fresh state rejected: %v", err)
	}
	if err := s.VerifyState(state + "x"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("tampered state accepted: %v", err)
	}
	if err := s.VerifyState("garbage"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("garbage state accepted: %v", err)
	}

	s.now = func() time.Time { return base.Add(11 * time.Minute) }
	if err := s.VerifyState(state); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expired state accepted: %v", err)
	}
}

func TestAuthURL(t *testing.T) {
	u, err := url.Parse(newTestService().AuthURL())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("client_id") != "client" || q.Get("state") == "" {
		t.Fatalf("auth url query = %v", q)
	}
}

func TestUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","email":"admin@shopdesk.lk","verified_email":true,"name":"Admin"}`))
	}))
	defer srv.Close()

	s := newTestService()
	s.userInfoURL = srv.URL
	info, err := s.userInfo(context.Background(), srv.Client())
	if err != nil {
		t.Fatalf("userInfo: %v", err)
	}
	if info.Email != "admin@shopdesk.lk" || !info.VerifiedEmail {
		t.Fatalf("info = %+v", info)
	}
}

func TestRedirects(t *testing.T) {
	s := newTestService()
	ok := s.SuccessRedirect("a", "r", 900)
	if !strings.HasPrefix(ok, "http://localhost:5173/auth/callback#") || !strings.Contains(ok, "access_token=a") {
		t.Fatalf("success redirect = %q", ok)
	}
	if got := s.ErrorRedirect("not allowed"); got != "http://localhost:5173/login?error=not+allowed" {
		t.Fatalf("error redirect = %q", got)
	}
}

func TestAuthenticateNotConfigured(t *testing.T) {
	s := NewGoogleOAuthService(GoogleOAuthConfig{})
	if _, err := s.Authenticate(context.Background(), "code"); !errors.Is(err, ErrOAuthNotConfigured) {
		t.Fatalf("expected ErrOAuthNotConfigured, got %v", err)
	}
}
