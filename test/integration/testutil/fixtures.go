package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"guesthouse/pkg/auth"
)

type GuestBuilder struct {
	claims auth.Claims
}

func NewGuestBuilder() *GuestBuilder {
	id := uuid.NewString()
	return &GuestBuilder{
		claims: auth.Claims{
			Email:         "guest-" + id[:8] + "@example.com",
			EmailVerified: true,
			Name:          "Test Guest",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "user_" + id,
			},
		},
	}
}

func (b *GuestBuilder) WithName(name string) *GuestBuilder {
	b.claims.Name = name
	return b
}

func (b *GuestBuilder) WithEmail(email string) *GuestBuilder {
	b.claims.Email = email
	return b
}

func (b *GuestBuilder) WithPhone(phone string, verified bool) *GuestBuilder {
	b.claims.PhoneNumber = phone
	b.claims.PhoneVerified = verified
	return b
}

// Token signs the claims with the shared HS256 secret the services verify against.
func (b *GuestBuilder) Token(t *testing.T, env *TestEnv) string {
	t.Helper()

	claims := b.claims
	now := time.Now()
	claims.Issuer = env.Issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(env.HMACSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// StayDates returns a check-in/check-out pair offset days from today, formatted as YYYY-MM-DD.
func StayDates(offset, nights int) (string, string) {
	in := time.Now().UTC().AddDate(0, 0, offset)
	return in.Format(time.DateOnly), in.AddDate(0, 0, nights).Format(time.DateOnly)
}
