package demo

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/crypto"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// UserID is the identity every demo session shares.
const UserID = "demo-user"

// Auth manufactures sessions without any verification.
type Auth struct {
	sealer *crypto.Sealer
}

var _ backend.Auth = (*Auth)(nil)

// SignInWithEmail always succeeds immediately, whatever the input.
func (a *Auth) SignInWithEmail(_ context.Context, email, _ string) (*backend.SignIn, error) {
	session := &models.Session{
		User: models.User{ID: UserID, Email: strings.TrimSpace(email)},
		Role: models.RoleHomeowner,
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	token, err := a.sealer.Seal(raw)
	if err != nil {
		return nil, err
	}
	return &backend.SignIn{Session: session, Token: token}, nil
}

func (a *Auth) CompleteEmailLink(context.Context, string, string) (*backend.SignIn, error) {
	return nil, backend.ErrUnsupported
}

func (a *Auth) SessionFromToken(_ context.Context, token string) (*models.Session, error) {
	raw, err := a.sealer.Open(token)
	if err != nil {
		return nil, backend.ErrNoSession
	}
	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil || session.User.ID == "" {
		return nil, backend.ErrNoSession
	}
	return &session, nil
}

// SignOut has nothing to revoke; dropping the cookie ends the session.
func (a *Auth) SignOut(context.Context, *models.Session) error { return nil }

func (a *Auth) Role(context.Context, string) (models.Role, error) {
	return models.RoleHomeowner, nil
}

func (a *Auth) Invite(context.Context, string, string) error { return backend.ErrUnsupported }

// Subscribe never fires; demo sessions only change on explicit sign-in.
func (a *Auth) Subscribe(func(models.SessionEvent)) func() { return func() {} }
