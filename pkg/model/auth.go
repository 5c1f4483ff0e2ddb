package model

import "time"

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,e164"`
}

type StoreSignupRequest struct {
	Email            string `json:"email" validate:"required,email,max=254"`
	Password         string `json:"password" validate:"required,min=8,max=72"`
	Name             string `json:"name" validate:"required,min=2,max=100"`
	BrandName        string `json:"brand_name" validate:"required,min=2,max=100"`
	BrandDescription string `json:"brand_description,omitempty" validate:"max=2000"`
	BrandLogoURL     string `json:"brand_logo_url,omitempty" validate:"omitempty,url,max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=12,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// AuthResponse is returned by every signup and login endpoint. Exactly one
// of the account fields is set, matching the token's role.
type AuthResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *User      `json:"user,omitempty"`
	StoreUser *StoreUser `json:"store_user,omitempty"`
	Brand     *Brand     `json:"brand,omitempty"`
	Admin     *AdminUser `json:"admin,omitempty"`
}

// StoreProfile is the signed-in store account together with its brand.
type StoreProfile struct {
	StoreUser *StoreUser `json:"store_user"`
	Brand     *Brand     `json:"brand"`
}
