package model

import "time"

type User struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty"`
	TokenIdentifier string    `json:"token_identifier" bson:"token_identifier" validate:"required,min=3,max=255"`
	Subject         string    `json:"subject" bson:"subject" validate:"required,max=255"`
	Issuer          string    `json:"issuer,omitempty" bson:"issuer,omitempty" validate:"omitempty,max=255"`
	Name            string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	GivenName       string    `json:"given_name,omitempty" bson:"given_name,omitempty" validate:"omitempty,max=100"`
	FamilyName      string    `json:"family_name,omitempty" bson:"family_name,omitempty" validate:"omitempty,max=100"`
	Email           string    `json:"email" bson:"email" validate:"required,email"`
	EmailVerified   bool      `json:"email_verified" bson:"email_verified"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	PhoneVerified   bool      `json:"phone_verified" bson:"phone_verified"`
	PictureURL      string    `json:"picture_url,omitempty" bson:"picture_url,omitempty" validate:"omitempty,url"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// SyncUserRequest carries optional profile fields that override what the token claims say.
type SyncUserRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	GivenName  string `json:"given_name,omitempty" validate:"omitempty,max=100"`
	FamilyName string `json:"family_name,omitempty" validate:"omitempty,max=100"`
	Phone      string `json:"phone,omitempty"`
	PictureURL string `json:"picture_url,omitempty" validate:"omitempty,url"`
}
