// Package backend defines the single capability the portal talks to: an auth
// provider, a row store and object storage. Exactly one variant is built at
// startup (live Firebase or in-memory demo) and passed to every service.
package backend

import (
	"context"
	"time"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

// Mode identifies which variant is serving the process.
type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

// Backend bundles the three collaborators.
type Backend interface {
	Mode() Mode
	Auth() Auth
	Store() Store
	Storage() Storage
}

// SignIn is the outcome of a sign-in step. Session is nil when the provider
// emailed a link and no session exists yet.
type SignIn struct {
	Session *models.Session
	Token   string // opaque session token to put in the cookie
}

// Auth is the passwordless auth provider.
type Auth interface {
	// SignInWithEmail starts an email sign-in. redirectURL is where the emailed link lands.
	SignInWithEmail(ctx context.Context, email, redirectURL string) (*SignIn, error)
	// CompleteEmailLink exchanges the code from a followed link for a session.
	CompleteEmailLink(ctx context.Context, email, oobCode string) (*SignIn, error)
	// SessionFromToken resolves a cookie token. It returns ErrNoSession for invalid or expired tokens.
	SessionFromToken(ctx context.Context, token string) (*models.Session, error)
	SignOut(ctx context.Context, session *models.Session) error
	// Role returns the role row for a user. Missing rows yield "" and no error.
	Role(ctx context.Context, userID string) (models.Role, error)
	// Invite sends a sign-in link to someone who has no account yet.
	Invite(ctx context.Context, email, redirectURL string) error
	// Subscribe registers fn for session changes until the returned func is called.
	Subscribe(fn func(models.SessionEvent)) (unsubscribe func())
}

// Store is the row store. Rows come back in no particular order; callers sort.
type Store interface {
	// MemberProjectIDs returns the projects the user belongs to.
	MemberProjectIDs(ctx context.Context, userID string) ([]string, error)
	// ProjectsByIDs returns the existing projects among ids, joined with their properties.
	ProjectsByIDs(ctx context.Context, ids []string) ([]models.ProjectRow, error)
	// ListProjects returns every project joined with its property.
	ListProjects(ctx context.Context) ([]models.ProjectRow, error)
	TimelineEvents(ctx context.Context, projectID string) ([]models.TimelineEventRecord, error)
	Photos(ctx context.Context, projectID string) ([]models.PhotoRecord, error)
	Documents(ctx context.Context, projectID string) ([]models.DocumentRecord, error)
	Messages(ctx context.Context, projectID string) ([]models.MessageRow, error)

	InsertMessage(ctx context.Context, msg *models.MessageRecord) (string, error)
	InsertProperty(ctx context.Context, prop *models.PropertyRecord) (string, error)
	InsertProject(ctx context.Context, project *models.ProjectRecord) (string, error)
	// UserByEmail returns ErrNotFound when no user has the address.
	UserByEmail(ctx context.Context, email string) (*models.UserRecord, error)
	// UpsertMember grants membership; granting twice is a no-op.
	UpsertMember(ctx context.Context, member models.MemberRecord) error
	AppendAudit(ctx context.Context, entry models.AuditLog) error
}

// Storage issues short-lived download URLs for "bucket:path" file references.
type Storage interface {
	SignedURL(ctx context.Context, fileURL string, ttl time.Duration) (string, error)
}
