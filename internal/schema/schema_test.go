package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/dira-homes/dira/internal/domain"
)

const validListing = `{
  "type": "apartment",
  "condition": "new",
  "location": {"town": "Haifa", "houseNum": 4, "floor": 2, "buildingMaxFloor": 8},
  "properties": {"numberOfRooms": 3.5, "hasLift": true},
  "price": 1200000,
  "size": {"totalSqm": 85},
  "entranceDate": {"date": "2030-01-01"},
  "publishers": [{"publisherName": "Dana", "phoneNumber": "0521234567"}]
}`

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestNew_CompilesAll(t *testing.T) {
	v := newValidator(t)
	for _, name := range []string{Listing, Signup, Login, Location} {
		if _, ok := v.schemas[name]; !ok {
			t.Errorf("schema %q not compiled", name)
		}
	}
}

func TestValidate_Listing(t *testing.T) {
	v := newValidator(t)
	if err := v.Validate(Listing, []byte(validListing)); err != nil {
		t.Fatalf("valid listing rejected: %v", err)
	}

	bad := strings.Replace(validListing, `"houseNum": 4`, `"houseNum": "four"`, 1)
	err := v.Validate(Listing, []byte(bad))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) && ve.Field != "houseNum" {
		t.Errorf("field = %q, want houseNum", ve.Field)
	}
}

func TestValidate_ListingDescriptionControlChar(t *testing.T) {
	v := newValidator(t)
	ok := strings.Replace(validListing, `"hasLift": true`, `"hasLift": true, "description": "sea view, 3rd floor"`, 1)
	if err := v.Validate(Listing, []byte(ok)); err != nil {
		t.Fatalf("valid description rejected: %v", err)
	}
	bad := strings.Replace(validListing, `"hasLift": true`, `"hasLift": true, "description": "sea\u001fview"`, 1)
	if err := v.Validate(Listing, []byte(bad)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidate_Login(t *testing.T) {
	v := newValidator(t)
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"email":"a@b.co","password":"x"}`, false},
		{"missing password", `{"email":"a@b.co"}`, true},
		{"wrong type", `{"email":1,"password":"x"}`, true},
		{"not json", `{`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(Login, []byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	v := newValidator(t)
	err := v.Validate("nope", []byte(`{}`))
	if err == nil || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
