package chi

import (
	"errors"
	"net/http"

	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/schema"
)

// Signup handles POST /signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req SignupRequest
	if !s.decodeValidated(w, schema.Signup, body, &req) {
		return
	}
	in, err := signupFromRequest(&req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sess, err := s.svc.Accounts.Signup(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{User: userToResponse(sess.User), Token: sess.Token})
}

// Login handles POST /login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req LoginRequest
	if !s.decodeValidated(w, schema.Login, body, &req) {
		return
	}

	sess, err := s.svc.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{User: userToResponse(sess.User), Token: sess.Token})
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, notAuthenticated)
		return
	}
	if err := s.svc.Accounts.Logout(r.Context(), sess.user.ID, sess.token); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
