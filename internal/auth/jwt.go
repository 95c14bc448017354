package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gymblog/gymblog/internal/entities"
)

// Token is a signed access token.
type Token struct {
	Token     string
	ExpiresAt time.Time
}

// Issuer issues and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates new instance of Issuer.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a token for u.
func (i *Issuer) Issue(u *entities.User) (Token, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub":   u.UID,
		"email": u.Email,
		"role":  string(u.Role),
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{Token: signed, ExpiresAt: exp}, nil
}

// Verify implements Verifier.
func (i *Issuer) Verify(_ context.Context, raw string) (*Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &Session{
		UserID: sub,
		Email:  email,
		Role:   roleFromClaim(claims["role"]),
	}, nil
}

func roleFromClaim(v interface{}) entities.Role {
	s, _ := v.(string)
	if r := entities.Role(s); r.Valid() {
		return r
	}
	return entities.UserRole
}
