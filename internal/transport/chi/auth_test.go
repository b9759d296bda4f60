package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/domain/user"
)

type stubAuthenticator struct {
	tokens map[string]*user.User
	err    error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func sessionEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFrom(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(sess.user.ID + "|" + sess.token))
	})
}

func newStubAuth() *stubAuthenticator {
	return &stubAuthenticator{tokens: map[string]*user.User{"good": {ID: "u1"}}}
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	handler := TokenAuthMiddleware(newStubAuth())(sessionEcho())

	req := httptest.NewRequest("POST", "/logout", http.NoBody)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	if rr.Body.String() != "u1|good" {
		t.Errorf("session = %q", rr.Body.String())
	}
}

func TestAuthMiddleware_QueryTokenWins(t *testing.T) {
	handler := TokenAuthMiddleware(newStubAuth())(sessionEcho())

	req := httptest.NewRequest("POST", "/logout?token=good", http.NoBody)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("got %d, want 200", rr.Code)
	}
}

func TestAuthMiddleware_Rejects_403(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic good"},
		{"unknown token", "Bearer bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := TokenAuthMiddleware(newStubAuth())(sessionEcho())
			req := httptest.NewRequest("POST", "/logout", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusForbidden {
				t.Fatalf("got %d, want 403", rr.Code)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Status != http.StatusForbidden || errResp.Message != "Not authenticated" {
				t.Errorf("unexpected body %+v", errResp)
			}
		})
	}
}

func TestAuthMiddleware_StoreFailure_500(t *testing.T) {
	auth := newStubAuth()
	auth.err = errors.New("connection refused")
	handler := TokenAuthMiddleware(auth)(sessionEcho())

	req := httptest.NewRequest("POST", "/logout?token=good", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want 500", rr.Code)
	}
}
