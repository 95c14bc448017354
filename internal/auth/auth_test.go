package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymblog/gymblog/internal/entities"
)

var ctx = context.Background()

func TestSession_Context(t *testing.T) {
	_, err := FromContext(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	s := &Session{UserID: "1", Email: "a@b.c", Role: entities.AdminRole}
	got, err := FromContext(WithSession(ctx, s))
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "secret"))
	assert.False(t, VerifyPassword(hash, "Secret"))
	assert.False(t, VerifyPassword("not a hash", "secret"))
}

func TestIssuer(t *testing.T) {
	i := NewIssuer("secret", time.Hour)

	tok, err := i.Issue(&entities.User{UID: "uid", Email: "a@b.c", Role: entities.ModeratorRole})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, time.Minute)

	s, err := i.Verify(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, &Session{UserID: "uid", Email: "a@b.c", Role: entities.ModeratorRole}, s)
}

func TestIssuer_Verify_Errors(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	expired := NewIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTok, err := expired.Issue(&entities.User{UID: "uid"})
	require.NoError(t, err)

	foreignTok, err := NewIssuer("other", time.Hour).Issue(&entities.User{UID: "uid"})
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "uid",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tt := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "abc"},
		{name: "expired", token: expiredTok.Token},
		{name: "foreign", token: foreignTok.Token},
		{name: "no sub", token: noSub},
		{name: "no exp", token: noExp},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			_, err := iss.Verify(ctx, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIssuer_UnknownRole(t *testing.T) {
	i := NewIssuer("secret", time.Hour)

	tok, err := i.Issue(&entities.User{UID: "uid", Role: "root"})
	require.NoError(t, err)

	s, err := i.Verify(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, entities.UserRole, s.Role)
}

type fakeIDTokenVerifier struct {
	tok *fbauth.Token
	err error
}

func (f fakeIDTokenVerifier) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return f.tok, f.err
}

func TestFirebaseVerifier(t *testing.T) {
	v := NewFirebaseVerifier(fakeIDTokenVerifier{tok: &fbauth.Token{
		UID:    "fb",
		Claims: map[string]interface{}{"email": "fb@b.c", "role": "admin"},
	}})

	s, err := v.Verify(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, &Session{UserID: "fb", Email: "fb@b.c", Role: entities.AdminRole}, s)

	v = NewFirebaseVerifier(fakeIDTokenVerifier{tok: &fbauth.Token{UID: "fb"}})
	s, err = v.Verify(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRole, s.Role)

	v = NewFirebaseVerifier(fakeIDTokenVerifier{err: errors.New("expired")})
	_, err = v.Verify(ctx, "token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChain(t *testing.T) {
	i := NewIssuer("secret", time.Hour)
	fb := NewFirebaseVerifier(fakeIDTokenVerifier{tok: &fbauth.Token{UID: "fb"}})

	tok, err := i.Issue(&entities.User{UID: "local"})
	require.NoError(t, err)

	s, err := Chain(i, fb).Verify(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "local", s.UserID)

	s, err = Chain(i, fb).Verify(ctx, "firebase-token")
	require.NoError(t, err)
	assert.Equal(t, "fb", s.UserID)

	_, err = Chain(i).Verify(ctx, "firebase-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
