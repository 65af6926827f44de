// Package live is the Firebase-backed Backend: Firebase Authentication for
// email-link sign-in and session cookies, Firestore for rows and Cloud
// Storage for document downloads.
package live

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/config"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/db"
)

// Backend is the live variant of backend.Backend.
type Backend struct {
	auth    *Auth
	store   *Store
	storage *Storage
}

var _ backend.Backend = (*Backend)(nil)

// New builds the live backend from an initialized Firebase app. mail may be
// nil, in which case the auth provider delivers sign-in links itself.
func New(ctx context.Context, cfg *config.Config, app *firebase.App, repos *db.Repositories, users core.UserService, mail LinkMailer, logger *zap.Logger) (*Backend, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Auth: %w", err)
	}
	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.FirebaseAPIKey))
	if err != nil {
		return nil, fmt.Errorf("identitytoolkit.NewService: %w", err)
	}
	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Storage: %w", err)
	}

	return &Backend{
		auth:    NewAuth(authClient, toolkit.Relyingparty, users, mail, cfg.SessionTTL, logger),
		store:   NewStore(repos),
		storage: NewStorage(storageClient),
	}, nil
}

func (b *Backend) Mode() backend.Mode       { return backend.ModeLive }
func (b *Backend) Auth() backend.Auth       { return b.auth }
func (b *Backend) Store() backend.Store     { return b.store }
func (b *Backend) Storage() backend.Storage { return b.storage }
