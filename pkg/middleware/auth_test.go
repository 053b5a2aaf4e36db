package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rolecast/rolecast/pkg/middleware"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, admin bool) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"admin": admin,
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func identityProbe(t *testing.T, captured *middleware.Identity) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := middleware.IdentityFrom(r.Context()); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	cfg := &middleware.AuthConfig{Enabled: false}

	var captured middleware.Identity
	handler := middleware.Auth(cfg)(identityProbe(t, &captured))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if captured.Subject != "anonymous" {
		t.Errorf("subject: got %q, want anonymous", captured.Subject)
	}
	if !captured.Admin {
		t.Error("disabled auth should grant admin")
	}
}

func TestAuthValidToken(t *testing.T) {
	cfg := &middleware.AuthConfig{Enabled: true, Secret: testSecret}

	var captured middleware.Identity
	handler := middleware.Auth(cfg)(identityProbe(t, &captured))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "alice", true))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if captured.Subject != "alice" {
		t.Errorf("subject: got %q, want alice", captured.Subject)
	}
	if !captured.Admin {
		t.Error("admin claim should carry through")
	}
}

func TestAuthRejections(t *testing.T) {
	cfg := &middleware.AuthConfig{Enabled: true, Secret: testSecret}
	handler := middleware.Auth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", "alice", false)},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	cfg := &middleware.AuthConfig{Enabled: true, Secret: testSecret}

	var reached bool
	handler := middleware.Auth(cfg)(middleware.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "bob", false))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	if reached {
		t.Error("handler should not be reached without admin claim")
	}

	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "bob", true))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if !reached {
		t.Error("admin request should reach the handler")
	}
}

func TestAuthConfigValidate(t *testing.T) {
	cfg := middleware.AuthConfig{Enabled: true}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("enabled auth without secret should fail validation")
	}

	cfg = middleware.AuthConfig{Enabled: false}
	if err := cfg.Finalize(nil); err != nil {
		t.Errorf("disabled auth should not require a secret: %v", err)
	}
}
