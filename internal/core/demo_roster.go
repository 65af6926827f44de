package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

var (
	ErrHomeownerFieldsRequired = errors.New("homeowner name and email are required")
	ErrInvalidInviteToken      = errors.New("invalid invite token")
)

// DemoRoster is the demo admin panel's homeowner list. It lives in process
// memory only, is shared by every visitor and is lost on restart.
type DemoRoster struct {
	mu         sync.Mutex
	homeowners []models.Homeowner
	baseURL    string
}

// NewDemoRoster returns a roster seeded with one sample homeowner.
func NewDemoRoster(baseURL string) *DemoRoster {
	return &DemoRoster{
		baseURL: strings.TrimRight(baseURL, "/"),
		homeowners: []models.Homeowner{
			{ID: "u1", Name: "Jane Doe", Email: "jane@example.com", ProjectID: "AR-24518"},
		},
	}
}

// List returns a copy of the roster in insertion order.
func (r *DemoRoster) List() []models.Homeowner {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Homeowner(nil), r.homeowners...)
}

// Add creates a homeowner with a fresh project number. The address is optional.
func (r *DemoRoster) Add(req models.DemoHomeownerRequest) (models.Homeowner, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return models.Homeowner{}, ErrHomeownerFieldsRequired
	}
	h := models.Homeowner{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Address:   strings.TrimSpace(req.Address),
		ProjectID: fmt.Sprintf("AR-%d", 10000+rand.IntN(89999)),
	}

	r.mu.Lock()
	r.homeowners = append(r.homeowners, h)
	r.mu.Unlock()
	return h, nil
}

// Revoke removes the homeowner. It reports whether a row was removed.
func (r *DemoRoster) Revoke(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.homeowners {
		if h.ID == id {
			r.homeowners = append(r.homeowners[:i], r.homeowners[i+1:]...)
			return true
		}
	}
	return false
}

// InviteLink is the portal URL carrying base64("email|projectId").
func (r *DemoRoster) InviteLink(h models.Homeowner) string {
	token := base64.StdEncoding.EncodeToString([]byte(h.Email + "|" + h.ProjectID))
	return r.baseURL + "/portal?token=" + url.QueryEscape(token)
}

// ParseInviteToken reverses the token of an invite link.
func ParseInviteToken(token string) (email, projectID string, err error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", "", ErrInvalidInviteToken
	}
	email, projectID, ok := strings.Cut(string(raw), "|")
	if !ok || email == "" || projectID == "" {
		return "", "", ErrInvalidInviteToken
	}
	return email, projectID, nil
}
