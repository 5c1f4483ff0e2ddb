package model

import "time"

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

type User struct {
	ID           string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email        string     `json:"email" bson:"email" validate:"required,email,max=254"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	FirstName    string     `json:"first_name" bson:"first_name" validate:"required,min=1,max=50"`
	LastName     string     `json:"last_name" bson:"last_name" validate:"required,min=1,max=50"`
	Phone        string     `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Status       UserStatus `json:"status" bson:"status" validate:"required,oneof=active disabled"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

type UserUpdate struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,e164"`
}

type UserStatusUpdate struct {
	Status UserStatus `json:"status" validate:"required,oneof=active disabled"`
}

// StoreUser is the login of a brand tenant. Every store user owns exactly one brand.
type StoreUser struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email        string    `json:"email" bson:"email" validate:"required,email,max=254"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	BrandID      string    `json:"brand_id" bson:"brand_id"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

type AdminUser struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email        string    `json:"email" bson:"email" validate:"required,email,max=254"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
