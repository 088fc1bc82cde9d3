package storage

import (
	"context"

	"github.com/mbellec/bocage/internal/common"
)

// LocalIdentity is the identity provider for the SQLite backend: a single
// actor configured up front, with no real session lifecycle.
type LocalIdentity struct {
	Email string
}

// CurrentActor returns the configured actor email.
func (l *LocalIdentity) CurrentActor(_ context.Context) (string, error) {
	if l.Email == "" {
		return "", common.ErrUnauthenticated
	}
	return l.Email, nil
}

// SignIn stores the actor email for the process lifetime.
func (l *LocalIdentity) SignIn(_ context.Context, email, _ string) error {
	l.Email = email
	return nil
}

// SignOut clears the actor.
func (l *LocalIdentity) SignOut(_ context.Context) error {
	l.Email = ""
	return nil
}
