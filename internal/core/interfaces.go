package core

import (
	"context"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

// UserService provisions and reads user rows.
type UserService interface {
	// GetOrCreate retrieves a user by ID, creating a homeowner row on first sight.
	// The bool reports whether the row was created.
	GetOrCreate(ctx context.Context, userID, email string) (*models.UserRecord, bool, error)
	GetByID(ctx context.Context, userID string) (*models.UserRecord, error)
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}

// ViewService assembles the dashboard view model for a session.
type ViewService interface {
	Build(ctx context.Context, session *models.Session) *models.ProjectView
}

// MessageService posts homeowner messages.
type MessageService interface {
	Send(ctx context.Context, view *models.ProjectView, draft string) error
}

// DocumentService turns a document of the current project into a download URL.
type DocumentService interface {
	DownloadURL(ctx context.Context, view *models.ProjectView, documentID string) (string, error)
}

// AdminService is the staff panel in live mode. Every call re-checks the role.
type AdminService interface {
	ListProjects(ctx context.Context, session *models.Session) ([]models.ProjectRow, error)
	CreateProject(ctx context.Context, session *models.Session, req models.CreateProjectRequest) (*models.CreateProjectResult, error)
	AddMember(ctx context.Context, session *models.Session, projectID, email string) (models.MemberOutcome, error)
}
