package domain

import (
	"errors"
	"testing"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone   string
		wantErr bool
	}{
		{"0521234567", false},
		{"0541234567", false},
		{" 0581234567 ", false},
		{"0561234567", true},
		{"0571234567", true},
		{"0591234567", true},
		{"052123456", true},
		{"05212345678", true},
		{"0421234567", true},
		{"05-1234567", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := ValidatePhone("phoneNumber", tt.phone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePhone(%q) err=%v, wantErr=%v", tt.phone, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidatePhone_Messages(t *testing.T) {
	err := ValidatePhone("phoneNumber", "0591234567")
	if err.Error() != "Phone number cannot begin with 059, change the third character (9)" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	err = ValidatePhone("phoneNumber", "052")
	if err.Error() != "Phone number must be exactly 10 digits long, it currently has 3 digits" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestIsLettersOnly(t *testing.T) {
	for _, ok := range []string{"Dana", "דנה", "Levi"} {
		if !IsLettersOnly(ok) {
			t.Errorf("IsLettersOnly(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "Dana1", "Da na", "O'Neil"} {
		if IsLettersOnly(bad) {
			t.Errorf("IsLettersOnly(%q) = true", bad)
		}
	}
}

func TestValidationError_Field(t *testing.T) {
	err := NewValidationError("price", "Price must be at least %d", 100000)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("expected *ValidationError")
	}
	if ve.Field != "price" || ve.Message != "Price must be at least 100000" {
		t.Errorf("unexpected error: %+v", ve)
	}
}

func TestErrListingNotFound_IsNotFound(t *testing.T) {
	if !errors.Is(ErrListingNotFound, ErrNotFound) {
		t.Error("ErrListingNotFound must match ErrNotFound")
	}
}
