package auth

import (
	"context"
	"fmt"

	"github.com/chathub-dev/chathub/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a bearer token and yields the decoded identity.
// Verification is stateless; callers treat every failure as 401.
type Verifier interface {
	Verify(ctx context.Context, bearerToken string) (*domain.Identity, error)
}

// identityClaims is the claim set issued by the ChatHub identity provider.
type identityClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies identity provider tokens signed with a shared HMAC
// secret and a fixed issuer.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier creates a new JWTVerifier.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Verify implements Verifier. Missing, malformed, expired, and bad-signature
// tokens are indistinguishable to callers: all map to domain.ErrUnauthenticated.
func (v *JWTVerifier) Verify(_ context.Context, bearerToken string) (*domain.Identity, error) {
	if bearerToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(bearerToken, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	return &domain.Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		ExpiresAt:     claims.ExpiresAt.Time,
	}, nil
}

// Ensure interface compliance
var _ Verifier = (*JWTVerifier)(nil)
