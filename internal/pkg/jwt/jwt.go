package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

const leeway = 10 * time.Second

// Claims is the subset of the identity provider's session token the BFF relies on.
// Subject is the identity user id.
type Claims struct {
	Email string `json:"email"`
	jwtlib.RegisteredClaims
}

// Verifier validates a session token and returns its claims.
type Verifier interface {
	ValidateToken(tokenStr string) (*Claims, error)
}

// Service signs and verifies HMAC session tokens. Used in dev and tests where
// no JWKS endpoint is available.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *Service) GenerateToken(subject, email string) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}), jwtlib.WithLeeway(leeway))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return checkClaims(token)
}

// JWKSVerifier validates RS256/ES256 session tokens issued by the identity provider.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	issuer string
}

// NewJWKSVerifier fetches the key set once and keeps it refreshed in the background
// until ctx is cancelled.
func NewJWKSVerifier(ctx context.Context, jwksURL, issuer string) (*JWKSVerifier, error) {
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("load jwks: %w", err)
	}
	return &JWKSVerifier{jwks: jwks, issuer: issuer}, nil
}

func (v *JWKSVerifier) ValidateToken(tokenStr string) (*Claims, error) {
	opts := []jwtlib.ParserOption{jwtlib.WithLeeway(leeway), jwtlib.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(v.issuer))
	}

	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, v.jwks.Keyfunc, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return checkClaims(token)
}

func checkClaims(token *jwtlib.Token) (*Claims, error) {
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
