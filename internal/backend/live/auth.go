package live

import (
	"context"
	"errors"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/identitytoolkit/v3"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// LinkMailer delivers a generated sign-in link. *mailer.Mailer satisfies it.
type LinkMailer interface {
	SendSignInLink(ctx context.Context, recipient, link string) error
}

const requestTypeEmailSignIn = "EMAIL_SIGNIN"

// Auth implements backend.Auth on Firebase Authentication.
type Auth struct {
	client     *auth.Client
	toolkit    *identitytoolkit.RelyingpartyService
	users      core.UserService
	mail       LinkMailer
	hub        *backend.Hub
	sessionTTL time.Duration
	logger     *zap.Logger
}

var _ backend.Auth = (*Auth)(nil)

func NewAuth(client *auth.Client, toolkit *identitytoolkit.RelyingpartyService, users core.UserService, mail LinkMailer, sessionTTL time.Duration, logger *zap.Logger) *Auth {
	return &Auth{
		client:     client,
		toolkit:    toolkit,
		users:      users,
		mail:       mail,
		hub:        backend.NewHub(),
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// SignInWithEmail emails a one-time link. No session exists until the link is followed.
func (a *Auth) SignInWithEmail(ctx context.Context, email, redirectURL string) (*backend.SignIn, error) {
	if err := a.sendLink(ctx, email, redirectURL); err != nil {
		return nil, backend.Wrap("auth.signInWithEmail", err)
	}
	return &backend.SignIn{}, nil
}

// Invite sends the same one-time link to a homeowner who has no account yet.
func (a *Auth) Invite(ctx context.Context, email, redirectURL string) error {
	return backend.Wrap("auth.invite", a.sendLink(ctx, email, redirectURL))
}

func (a *Auth) sendLink(ctx context.Context, email, redirectURL string) error {
	if a.mail != nil {
		link, err := a.client.EmailSignInLink(ctx, email, &auth.ActionCodeSettings{
			URL:             redirectURL,
			HandleCodeInApp: true,
		})
		if err != nil {
			return err
		}
		return a.mail.SendSignInLink(ctx, email, link)
	}
	_, err := a.toolkit.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		Email:              email,
		RequestType:        requestTypeEmailSignIn,
		ContinueUrl:        redirectURL,
		CanHandleCodeInApp: true,
	}).Context(ctx).Do()
	return err
}

// CompleteEmailLink exchanges the link's code for an ID token and mints a session cookie.
func (a *Auth) CompleteEmailLink(ctx context.Context, email, oobCode string) (*backend.SignIn, error) {
	resp, err := a.toolkit.EmailLinkSignin(&identitytoolkit.IdentitytoolkitRelyingpartyEmailLinkSigninRequest{
		Email:   email,
		OobCode: oobCode,
	}).Context(ctx).Do()
	if err != nil {
		return nil, backend.Wrap("auth.emailLinkSignin", err)
	}

	cookie, err := a.client.SessionCookie(ctx, resp.IdToken, a.sessionTTL)
	if err != nil {
		return nil, backend.Wrap("auth.sessionCookie", err)
	}

	if _, created, err := a.users.GetOrCreate(ctx, resp.LocalId, resp.Email); err != nil {
		a.logger.Warn("user provisioning failed", zap.String("uid", resp.LocalId), zap.Error(err))
	} else if created {
		a.logger.Info("provisioned user row", zap.String("uid", resp.LocalId))
	}

	session := &models.Session{User: models.User{ID: resp.LocalId, Email: resp.Email}}
	a.hub.Publish(models.SessionEvent{Kind: models.SessionSignedIn, UserID: resp.LocalId, Email: resp.Email})
	return &backend.SignIn{Session: session, Token: cookie}, nil
}

// SessionFromToken verifies a session cookie, including revocation.
func (a *Auth) SessionFromToken(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, backend.ErrNoSession
	}
	decoded, err := a.client.VerifySessionCookieAndCheckRevoked(ctx, token)
	if err != nil {
		a.logger.Debug("session cookie rejected", zap.Error(err))
		return nil, backend.ErrNoSession
	}
	email, _ := decoded.Claims["email"].(string)
	return &models.Session{User: models.User{ID: decoded.UID, Email: email}}, nil
}

// SignOut revokes the user's refresh tokens so existing session cookies stop verifying.
func (a *Auth) SignOut(ctx context.Context, session *models.Session) error {
	if session == nil {
		return nil
	}
	if err := a.client.RevokeRefreshTokens(ctx, session.User.ID); err != nil {
		return backend.Wrap("auth.signOut", err)
	}
	a.hub.Publish(models.SessionEvent{Kind: models.SessionSignedOut, UserID: session.User.ID, Email: session.User.Email})
	return nil
}

// Role reads users/{uid}.role. A missing row is an empty role.
func (a *Auth) Role(ctx context.Context, userID string) (models.Role, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return "", nil
		}
		return "", backend.Wrap("store.userRole", err)
	}
	return user.Role, nil
}

func (a *Auth) Subscribe(fn func(models.SessionEvent)) func() {
	return a.hub.Subscribe(fn)
}
