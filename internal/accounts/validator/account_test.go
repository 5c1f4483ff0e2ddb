package validator

import (
	"errors"
	"testing"

	"staymi/pkg/logger"
	"staymi/pkg/model"
	"staymi/pkg/validation"
)

func TestValidateSignup(t *testing.T) {
	v := NewAccountValidator(validation.New(logger.Discard()))

	tests := []struct {
		name      string
		req       model.SignupRequest
		wantField string
	}{
		{
			name: "valid",
			req:  model.SignupRequest{Email: "ana@example.com", Password: "correct horse", FirstName: "Ana", LastName: "Lee"},
		},
		{
			name:      "short password",
			req:       model.SignupRequest{Email: "ana@example.com", Password: "short", FirstName: "Ana", LastName: "Lee"},
			wantField: "password",
		},
		{
			name:      "blank password",
			req:       model.SignupRequest{Email: "ana@example.com", Password: "          ", FirstName: "Ana", LastName: "Lee"},
			wantField: "password",
		},
		{
			name:      "bad email",
			req:       model.SignupRequest{Email: "not-an-email", Password: "correct horse", FirstName: "Ana", LastName: "Lee"},
			wantField: "email",
		},
		{
			name:      "phone not e164",
			req:       model.SignupRequest{Email: "ana@example.com", Password: "correct horse", FirstName: "Ana", LastName: "Lee", Phone: "0912 345"},
			wantField: "phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSignup(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verrs validation.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidateCreateAdmin_LongerPassword(t *testing.T) {
	v := NewAccountValidator(validation.New(logger.Discard()))

	err := v.ValidateCreateAdmin(&model.CreateAdminRequest{Email: "ops@staymi.app", Password: "elevenchars", Name: "Ops"})
	if err == nil {
		t.Fatal("admin passwords need at least 12 characters")
	}
}
