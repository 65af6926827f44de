package db

import (
	"context"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*models.UserRecord, error)
	// GetMany returns the users that exist among ids, keyed by ID.
	GetMany(ctx context.Context, ids []string) (map[string]*models.UserRecord, error)
	Create(ctx context.Context, user *models.UserRecord) error
}

// PropertyRepository defines the interface for property storage operations.
type PropertyRepository interface {
	Create(ctx context.Context, prop *models.PropertyRecord) (string, error)
	GetMany(ctx context.Context, ids []string) (map[string]*models.PropertyRecord, error)
}

// ProjectRepository defines the interface for project storage operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.ProjectRecord) (string, error)
	// GetByIDs skips IDs that do not exist. Order is unspecified.
	GetByIDs(ctx context.Context, ids []string) ([]*models.ProjectRecord, error)
	List(ctx context.Context) ([]*models.ProjectRecord, error)
}

// MemberRepository defines the interface for project membership storage.
type MemberRepository interface {
	ProjectIDsForUser(ctx context.Context, userID string) ([]string, error)
	Upsert(ctx context.Context, member models.MemberRecord) error
}

// TimelineRepository, PhotoRepository, DocumentRepository and MessageRepository
// list the rows attached to one project. Order is unspecified.
type TimelineRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]models.TimelineEventRecord, error)
}

type PhotoRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]models.PhotoRecord, error)
}

type DocumentRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]models.DocumentRecord, error)
}

type MessageRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]models.MessageRecord, error)
	Create(ctx context.Context, msg *models.MessageRecord) (string, error)
}

// AuditRepository defines the interface for audit log data storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
