package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/industrialpartner/storefront-backend/pkg/config"
)

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{CookieName: "ip_session", TTL: 720 * time.Hour}
}

func TestSessionMintsCookieOnFirstVisit(t *testing.T) {
	var seen string
	handler := Session(sessionConfig(), nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = SessionID(r.Context())
		}),
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a session id on the context")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "ip_session" || cookies[0].Value != seen {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("session cookie must be http-only")
	}
}

func TestSessionReusesExistingCookie(t *testing.T) {
	var seen string
	handler := Session(sessionConfig(), nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = SessionID(r.Context())
		}),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "ip_session", Value: "existing-id"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if seen != "existing-id" {
		t.Fatalf("session id = %q, want existing-id", seen)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("existing sessions must not be reissued")
	}
}
