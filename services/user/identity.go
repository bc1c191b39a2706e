package user

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// IdentityProvider creates sign-in accounts for admin-created users.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	SetRoleClaim(ctx context.Context, uid, role string) error
}

// FirebaseIdentity is backed by Firebase Auth.
type FirebaseIdentity struct {
	Client *auth.Client
}

func (f *FirebaseIdentity) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		EmailVerified(false)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}
	rec, err := f.Client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("firebase create user: %w", err)
	}
	return rec.UID, nil
}

func (f *FirebaseIdentity) SetRoleClaim(ctx context.Context, uid, role string) error {
	return f.Client.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": role})
}
