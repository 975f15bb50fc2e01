package auth

import (
	"context"
	"errors"
	"fmt"
	"guesthouse/pkg/logger"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidIssuer = errors.New("unexpected token issuer")
	ErrMissingClaim  = errors.New("token is missing the subject claim")
)

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
	Close()
}

type Options struct {
	JWKSURL         string
	HMACSecret      string
	Issuer          string
	TokenPrefix     string
	RefreshInterval time.Duration
}

type jwtVerifier struct {
	keyFunc jwt.Keyfunc
	parser  *jwt.Parser
	issuer  string
	prefix  string
	jwks    *keyfunc.JWKS
}

// NewVerifier builds a JWKS-backed verifier when a JWKS URL is configured and
// falls back to a shared-secret HS256 verifier otherwise.
func NewVerifier(opts Options, log *logger.Logger) (Verifier, error) {
	if opts.JWKSURL != "" {
		return NewJWKSVerifier(opts, log)
	}
	if opts.HMACSecret != "" {
		return NewHMACVerifier(opts), nil
	}
	return nil, errors.New("no token verification method configured")
}

func NewJWKSVerifier(opts Options, log *logger.Logger) (Verifier, error) {
	jwks, err := keyfunc.Get(opts.JWKSURL, keyfunc.Options{
		RefreshInterval:   opts.RefreshInterval,
		RefreshRateLimit:  time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error("Failed to refresh JWKS", "url", opts.JWKSURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", opts.JWKSURL, err)
	}

	return &jwtVerifier{
		keyFunc: jwks.Keyfunc,
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "RS384", "RS512", "ES256", "ES384", "EdDSA"})),
		issuer:  opts.Issuer,
		prefix:  opts.TokenPrefix,
		jwks:    jwks,
	}, nil
}

func NewHMACVerifier(opts Options) Verifier {
	secret := []byte(opts.HMACSecret)
	return &jwtVerifier{
		keyFunc: func(*jwt.Token) (any, error) { return secret, nil },
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
		issuer:  opts.Issuer,
		prefix:  opts.TokenPrefix,
	}
}

func (v *jwtVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIssuer, claims.Issuer)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingClaim
	}

	return claims.identity(v.prefix), nil
}

func (v *jwtVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
