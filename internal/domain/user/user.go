// Package user holds account identities and their credential rules.
package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dira-homes/dira/internal/domain"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// User is a registered account. Session tokens are persisted separately.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	BirthDate    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Signup is the registration input.
type Signup struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	BirthDate *time.Time
}

var emailCaser = cases.Lower(language.Und)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return emailCaser.String(strings.TrimSpace(email))
}

// New validates s, hashes the password with the given bcrypt cost and
// returns the account.
func New(id string, s Signup, now time.Time, cost int) (*User, error) {
	email := NormalizeEmail(s.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, domain.NewValidationError("email", "Email is not valid")
	}
	if err := ValidatePassword(s.Password); err != nil {
		return nil, err
	}
	first := strings.TrimSpace(s.FirstName)
	if !domain.IsLettersOnly(first) {
		return nil, domain.NewValidationError("firstName", "First name must only include letters")
	}
	last := strings.TrimSpace(s.LastName)
	if !domain.IsLettersOnly(last) {
		return nil, domain.NewValidationError("lastName", "Last name must only include letters")
	}
	phone := strings.TrimSpace(s.Phone)
	if err := domain.ValidatePhone("phoneNumber", phone); err != nil {
		return nil, err
	}
	if s.BirthDate != nil && s.BirthDate.After(now) {
		return nil, domain.NewValidationError("dateOfBirth", "Date of birth cannot be in the future")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    first,
		LastName:     last,
		Phone:        phone,
		BirthDate:    s.BirthDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ValidatePassword requires at least six characters with a digit, a
// lower-case and an upper-case letter.
func ValidatePassword(password string) error {
	var digit, lower, upper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		}
	}
	if len([]rune(password)) < MinPasswordLen || !digit || !lower || !upper {
		return domain.NewValidationError("password",
			"Passwords must contain at least six characters, at least one letter, one number and one capital letter")
	}
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
