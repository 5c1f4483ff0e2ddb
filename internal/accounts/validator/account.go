package validator

import (
	"strings"

	"staymi/pkg/model"
	"staymi/pkg/validation"
)

type AccountValidator struct {
	v *validation.Validator
}

func NewAccountValidator(v *validation.Validator) *AccountValidator {
	return &AccountValidator{v: v}
}

func (a *AccountValidator) ValidateSignup(req *model.SignupRequest) error {
	if err := a.v.Struct(req); err != nil {
		return err
	}
	return checkPassword(req.Password)
}

func (a *AccountValidator) ValidateStoreSignup(req *model.StoreSignupRequest) error {
	if err := a.v.Struct(req); err != nil {
		return err
	}
	return checkPassword(req.Password)
}

func (a *AccountValidator) ValidateLogin(req *model.LoginRequest) error {
	return a.v.Struct(req)
}

func (a *AccountValidator) ValidateCreateAdmin(req *model.CreateAdminRequest) error {
	if err := a.v.Struct(req); err != nil {
		return err
	}
	return checkPassword(req.Password)
}

func (a *AccountValidator) ValidateUser(user *model.User) error {
	return a.v.Struct(user)
}

func (a *AccountValidator) ValidateStatus(update *model.UserStatusUpdate) error {
	return a.v.Struct(update)
}

// checkPassword rejects passwords made only of whitespace, which the length
// tags alone would accept.
func checkPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return validation.Fail("password", "password must not be blank")
	}
	return nil
}
