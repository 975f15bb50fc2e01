package auth

import "github.com/golang-jwt/jwt/v4"

// Claims is the subset of OpenID Connect claims the identity provider puts in session tokens.
type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	PhoneVerified bool   `json:"phone_number_verified,omitempty"`
	Picture       string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) identity(prefix string) *Identity {
	return &Identity{
		Subject:         c.Subject,
		Issuer:          c.Issuer,
		TokenIdentifier: TokenIdentifier(prefix, c.Subject),
		Email:           c.Email,
		EmailVerified:   c.EmailVerified,
		Name:            c.Name,
		GivenName:       c.GivenName,
		FamilyName:      c.FamilyName,
		PhoneNumber:     c.PhoneNumber,
		PhoneVerified:   c.PhoneVerified,
		PictureURL:      c.Picture,
	}
}
