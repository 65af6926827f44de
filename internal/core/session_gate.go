package core

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// ErrAdminForbidden is returned when a session may not open the admin view.
var ErrAdminForbidden = errors.New("admin access requires the admin or pm role")

// callbackPath is where emailed sign-in links land.
const callbackPath = "/auth/callback"

// SessionGate decides who the visitor is. It is the only component that
// talks to the auth collaborator on behalf of the HTTP layer.
type SessionGate struct {
	backend backend.Backend
	baseURL string
	logger  *zap.Logger
}

// NewSessionGate creates a new SessionGate. baseURL is the public origin
// used to build sign-in redirect links.
func NewSessionGate(b backend.Backend, baseURL string, logger *zap.Logger) *SessionGate {
	return &SessionGate{
		backend: b,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Mode is the mode of the injected backend.
func (g *SessionGate) Mode() backend.Mode {
	return g.backend.Mode()
}

// Current resolves a cookie token into a session. Any failure means "signed out".
func (g *SessionGate) Current(ctx context.Context, token string) *models.Session {
	if token == "" {
		return nil
	}
	session, err := g.backend.Auth().SessionFromToken(ctx, token)
	if err != nil {
		if !errors.Is(err, backend.ErrNoSession) {
			g.logger.Warn("session lookup failed", zap.Error(err))
		}
		return nil
	}
	return session
}

// RedirectURL is the link target for an email sign-in. The email travels in
// the query so the callback can complete the sign-in from any browser.
func (g *SessionGate) RedirectURL(email string) string {
	return g.baseURL + callbackPath + "?email=" + url.QueryEscape(email)
}

// SignInWithEmail starts a sign-in. In demo mode the returned SignIn already
// carries a session; in live mode it is empty until the emailed link is followed.
func (g *SessionGate) SignInWithEmail(ctx context.Context, email string) (*backend.SignIn, error) {
	email = strings.TrimSpace(email)
	result, err := g.backend.Auth().SignInWithEmail(ctx, email, g.RedirectURL(email))
	if err != nil {
		return nil, err
	}
	g.logger.Info("sign-in requested", zap.String("mode", string(g.Mode())), zap.Bool("immediate", result.Session != nil))
	return result, nil
}

// CompleteEmailLink finishes a live sign-in from the callback parameters.
func (g *SessionGate) CompleteEmailLink(ctx context.Context, email, oobCode string) (*backend.SignIn, error) {
	result, err := g.backend.Auth().CompleteEmailLink(ctx, strings.TrimSpace(email), oobCode)
	if err != nil {
		return nil, err
	}
	g.logger.Info("sign-in completed", zap.String("uid", result.Session.User.ID))
	return result, nil
}

// SignOut ends the session with the provider. A nil session is a no-op.
func (g *SessionGate) SignOut(ctx context.Context, session *models.Session) error {
	if session == nil {
		return nil
	}
	return g.backend.Auth().SignOut(ctx, session)
}

// AuthorizeAdmin looks up the session's role row and only lets admin and pm
// through. The returned role is the one that was checked.
func (g *SessionGate) AuthorizeAdmin(ctx context.Context, session *models.Session) (models.Role, error) {
	if session == nil {
		return "", ErrAdminForbidden
	}
	role, err := g.backend.Auth().Role(ctx, session.User.ID)
	if err != nil {
		return "", err
	}
	if !role.IsStaff() {
		return role, ErrAdminForbidden
	}
	return role, nil
}

// watchBuffer bounds how many undelivered events a slow watcher may hold.
// Further events are dropped for that watcher.
const watchBuffer = 8

// Watch subscribes to session changes that pass filter. The subscription is
// released and the channel closed once ctx is done. Demo backends have no
// session events, so Watch returns ErrUnsupported for them.
func (g *SessionGate) Watch(ctx context.Context, filter func(models.SessionEvent) bool) (<-chan models.SessionEvent, error) {
	if g.Mode() != backend.ModeLive {
		return nil, backend.ErrUnsupported
	}

	ch := make(chan models.SessionEvent, watchBuffer)
	var (
		mu     sync.Mutex
		closed bool
	)
	unsubscribe := g.backend.Auth().Subscribe(func(ev models.SessionEvent) {
		if filter != nil && !filter(ev) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		default:
			g.logger.Debug("session watcher full, event dropped", zap.String("kind", string(ev.Kind)))
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return ch, nil
}
