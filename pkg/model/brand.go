package model

import "time"

type Brand struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" bson:"description" validate:"max=2000"`
	LogoURL     string    `json:"logo_url,omitempty" bson:"logo_url,omitempty" validate:"omitempty,url,max=500"`
	OwnerID     string    `json:"owner_id" bson:"owner_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type BrandUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	LogoURL     *string `json:"logo_url,omitempty" validate:"omitempty,url,max=500"`
}
