package user

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dira-homes/dira/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validSignup() Signup {
	return Signup{
		Email:     "  Dana@Example.COM ",
		Password:  "Secret1",
		FirstName: "Dana",
		LastName:  "כהן",
		Phone:     "0521234567",
	}
}

func TestNew_Valid(t *testing.T) {
	u, err := New("u1", validSignup(), testNow, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if u.Email != "dana@example.com" {
		t.Errorf("email = %q, want lower-cased and trimmed", u.Email)
	}
	if u.PasswordHash == "Secret1" || u.PasswordHash == "" {
		t.Error("password was not hashed")
	}
	if !u.CheckPassword("Secret1") {
		t.Error("CheckPassword rejected the right password")
	}
	if u.CheckPassword("secret1") {
		t.Error("CheckPassword accepted the wrong password")
	}
}

func TestNew_Invalid(t *testing.T) {
	future := testNow.Add(24 * time.Hour)
	tests := []struct {
		name   string
		mutate func(*Signup)
		field  string
	}{
		{"bad email", func(s *Signup) { s.Email = "dana" }, "email"},
		{"short password", func(s *Signup) { s.Password = "Ab1" }, "password"},
		{"no digit", func(s *Signup) { s.Password = "Secrets" }, "password"},
		{"no capital", func(s *Signup) { s.Password = "secret1" }, "password"},
		{"digits in first name", func(s *Signup) { s.FirstName = "Dana2" }, "firstName"},
		{"empty last name", func(s *Signup) { s.LastName = "" }, "lastName"},
		{"bad phone", func(s *Signup) { s.Phone = "0501" }, "phoneNumber"},
		{"future birth date", func(s *Signup) { s.BirthDate = &future }, "dateOfBirth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSignup()
			tt.mutate(&s)
			_, err := New("u1", s, testNow, bcrypt.MinCost)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail(" A@B.Co "); got != "a@b.co" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
