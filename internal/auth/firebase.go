package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// IDTokenVerifier is a part of firebase auth client used by FirebaseVerifier.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens. The role is taken from the "role" custom claim.
type FirebaseVerifier struct {
	c IDTokenVerifier
}

// NewFirebaseVerifier creates new instance of FirebaseVerifier.
func NewFirebaseVerifier(c IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{c: c}
}

// NewFirebaseAuthClient creates firebase auth client for projectID.
// Empty credentialsFile means application default credentials.
func NewFirebaseAuthClient(ctx context.Context, projectID, credentialsFile string) (*fbauth.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}

	c, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}

	return c, nil
}

// Verify implements Verifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (*Session, error) {
	tok, err := v.c.VerifyIDToken(ctx, raw)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := tok.Claims["email"].(string)

	return &Session{
		UserID: tok.UID,
		Email:  email,
		Role:   roleFromClaim(tok.Claims["role"]),
	}, nil
}

// Chain returns Verifier which tries verifiers until one succeeds.
func Chain(v ...Verifier) Verifier {
	return chain(v)
}

type chain []Verifier

func (c chain) Verify(ctx context.Context, raw string) (*Session, error) {
	for _, v := range c {
		if s, err := v.Verify(ctx, raw); err == nil {
			return s, nil
		}
	}
	return nil, ErrInvalidToken
}
