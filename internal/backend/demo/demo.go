// Package demo is the in-memory Backend used when no backend credentials are
// configured. Every visitor gets the same sample project, sign-in needs no
// verification and anything that would write or reach storage is refused.
package demo

import (
	"context"
	"time"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/crypto"
)

// Backend is the demo variant of backend.Backend.
type Backend struct {
	auth    *Auth
	store   *Store
	storage storage
}

var _ backend.Backend = (*Backend)(nil)

// New builds the demo backend. A nil key seals session cookies with a
// random per-process key, so demo sessions do not survive a restart.
func New(key []byte) (*Backend, error) {
	if key == nil {
		var err error
		if key, err = crypto.NewKey(); err != nil {
			return nil, err
		}
	}
	sealer, err := crypto.NewSealer(key)
	if err != nil {
		return nil, err
	}
	fixture, err := LoadFixture()
	if err != nil {
		return nil, err
	}
	return &Backend{auth: &Auth{sealer: sealer}, store: &Store{fixture: fixture}}, nil
}

func (b *Backend) Mode() backend.Mode       { return backend.ModeDemo }
func (b *Backend) Auth() backend.Auth       { return b.auth }
func (b *Backend) Store() backend.Store     { return b.store }
func (b *Backend) Storage() backend.Storage { return b.storage }

// storage refuses every download without looking at the reference.
type storage struct{}

func (storage) SignedURL(context.Context, string, time.Duration) (string, error) {
	return "", backend.ErrNotConnected
}
