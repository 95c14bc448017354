// Package auth contains request sessions, token issuing and verification.
package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/gymblog/gymblog/internal/entities"
)

//go:generate mockgen -destination=./mock/auth.go -package=mock -source=auth.go

// ErrInvalidToken is returned when a bearer token can not be verified.
var ErrInvalidToken = errors.New("invalid token")

// ErrNoSession is returned when the context carries no session.
var ErrNoSession = errors.New("no session")

// Session is the authenticated caller of a request.
type Session struct {
	UserID string
	Email  string
	Role   entities.Role
}

// Verifier verifies bearer tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

type sessionKey struct{}

// WithSession returns copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns session put by WithSession.
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}

	return s, nil
}

// HashPassword returns bcrypt hash of plain using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares bcrypt hash with plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
