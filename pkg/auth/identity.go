package auth

import (
	"context"
	"guesthouse/pkg/errors"
)

// Identity is the verified caller of a request, derived from the token claims.
type Identity struct {
	Subject         string
	Issuer          string
	TokenIdentifier string
	Email           string
	EmailVerified   bool
	Name            string
	GivenName       string
	FamilyName      string
	PhoneNumber     string
	PhoneVerified   bool
	PictureURL      string
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}

// RequireIdentity returns the request identity or an UNAUTHORIZED AppError.
func RequireIdentity(ctx context.Context) (*Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, errors.Unauthorized("Authentication required")
	}
	return id, nil
}

func TokenIdentifier(prefix, subject string) string {
	return prefix + ":" + subject
}
