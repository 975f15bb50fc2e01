package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		Email:         "guest@example.com",
		EmailVerified: true,
		Name:          "Asha Rao",
		GivenName:     "Asha",
		FamilyName:    "Rao",
		Picture:       "https://img.example.com/asha.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_2abc",
			Issuer:    "https://auth.example.com",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func newTestVerifier(issuer string) Verifier {
	return NewHMACVerifier(Options{HMACSecret: testSecret, Issuer: issuer, TokenPrefix: "clerk"})
}

func TestVerify_ValidToken(t *testing.T) {
	v := newTestVerifier("https://auth.example.com")
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", id.Subject)
	assert.Equal(t, "clerk:user_2abc", id.TokenIdentifier)
	assert.Equal(t, "guest@example.com", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "Asha Rao", id.Name)
	assert.Equal(t, "https://img.example.com/asha.png", id.PictureURL)
}

func TestVerify_Rejects(t *testing.T) {
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	otherIssuer := validClaims()
	otherIssuer.Issuer = "https://evil.example.com"

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims()), ErrInvalidToken},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret), expired), ErrInvalidToken},
		{"unexpected algorithm", sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims()), ErrInvalidToken},
		{"wrong issuer", sign(t, jwt.SigningMethodHS256, []byte(testSecret), otherIssuer), ErrInvalidIssuer},
		{"missing subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject), ErrMissingClaim},
	}

	v := newTestVerifier("https://auth.example.com")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(context.Background(), tt.token)
			assert.Nil(t, id)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerify_IssuerOptional(t *testing.T) {
	v := newTestVerifier("")
	claims := validClaims()
	claims.Issuer = "anything"

	id, err := v.Verify(context.Background(), sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
	require.NoError(t, err)
	assert.Equal(t, "anything", id.Issuer)
}

func TestNewVerifier_RequiresMethod(t *testing.T) {
	_, err := NewVerifier(Options{TokenPrefix: "clerk"}, nil)
	assert.Error(t, err)

	v, err := NewVerifier(Options{HMACSecret: testSecret, TokenPrefix: "clerk"}, nil)
	require.NoError(t, err)
	v.Close()
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	_, ok := IdentityFromContext(ctx)
	assert.False(t, ok)

	_, err := RequireIdentity(ctx)
	assert.Error(t, err)

	id := &Identity{Subject: "user_1", TokenIdentifier: TokenIdentifier("clerk", "user_1")}
	ctx = WithIdentity(ctx, id)

	got, err := RequireIdentity(ctx)
	require.NoError(t, err)
	assert.Same(t, id, got)
	assert.Equal(t, "clerk:user_1", got.TokenIdentifier)
}
