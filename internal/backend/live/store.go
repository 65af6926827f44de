package live

import (
	"context"
	"errors"
	"time"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/db"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// Store implements backend.Store over the Firestore repositories. Every
// failure is reported as a *backend.ProviderError.
type Store struct {
	repos *db.Repositories
	now   func() time.Time
}

var _ backend.Store = (*Store)(nil)

func NewStore(repos *db.Repositories) *Store {
	return &Store{repos: repos, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) MemberProjectIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repos.Members.ProjectIDsForUser(ctx, userID)
	return ids, backend.Wrap("store.projectMembers", err)
}

func (s *Store) ProjectsByIDs(ctx context.Context, ids []string) ([]models.ProjectRow, error) {
	projects, err := s.repos.Projects.GetByIDs(ctx, ids)
	if err != nil {
		return nil, backend.Wrap("store.projects", err)
	}
	return s.joinProperties(ctx, projects)
}

func (s *Store) ListProjects(ctx context.Context) ([]models.ProjectRow, error) {
	projects, err := s.repos.Projects.List(ctx)
	if err != nil {
		return nil, backend.Wrap("store.projects", err)
	}
	return s.joinProperties(ctx, projects)
}

func (s *Store) joinProperties(ctx context.Context, projects []*models.ProjectRecord) ([]models.ProjectRow, error) {
	propertyIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		propertyIDs = append(propertyIDs, p.PropertyID)
	}
	props, err := s.repos.Properties.GetMany(ctx, propertyIDs)
	if err != nil {
		return nil, backend.Wrap("store.properties", err)
	}
	rows := make([]models.ProjectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, models.ProjectRow{ProjectRecord: *p, Property: props[p.PropertyID]})
	}
	return rows, nil
}

func (s *Store) TimelineEvents(ctx context.Context, projectID string) ([]models.TimelineEventRecord, error) {
	rows, err := s.repos.Timeline.ListByProject(ctx, projectID)
	return rows, backend.Wrap("store.timelineEvents", err)
}

func (s *Store) Photos(ctx context.Context, projectID string) ([]models.PhotoRecord, error) {
	rows, err := s.repos.Photos.ListByProject(ctx, projectID)
	return rows, backend.Wrap("store.photos", err)
}

func (s *Store) Documents(ctx context.Context, projectID string) ([]models.DocumentRecord, error) {
	rows, err := s.repos.Documents.ListByProject(ctx, projectID)
	return rows, backend.Wrap("store.documents", err)
}

// Messages joins each message with its author's name.
func (s *Store) Messages(ctx context.Context, projectID string) ([]models.MessageRow, error) {
	msgs, err := s.repos.Messages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, backend.Wrap("store.messages", err)
	}
	authorIDs := make([]string, 0, len(msgs))
	for _, m := range msgs {
		authorIDs = append(authorIDs, m.FromUserID)
	}
	authors, err := s.repos.Users.GetMany(ctx, authorIDs)
	if err != nil {
		return nil, backend.Wrap("store.messageAuthors", err)
	}
	rows := make([]models.MessageRow, 0, len(msgs))
	for _, m := range msgs {
		row := models.MessageRow{MessageRecord: m}
		if u, ok := authors[m.FromUserID]; ok {
			row.AuthorName = u.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) InsertMessage(ctx context.Context, msg *models.MessageRecord) (string, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	id, err := s.repos.Messages.Create(ctx, msg)
	return id, backend.Wrap("store.insertMessage", err)
}

func (s *Store) InsertProperty(ctx context.Context, prop *models.PropertyRecord) (string, error) {
	if prop.CreatedAt.IsZero() {
		prop.CreatedAt = s.now()
	}
	id, err := s.repos.Properties.Create(ctx, prop)
	return id, backend.Wrap("store.insertProperty", err)
}

func (s *Store) InsertProject(ctx context.Context, project *models.ProjectRecord) (string, error) {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = s.now()
	}
	id, err := s.repos.Projects.Create(ctx, project)
	return id, backend.Wrap("store.insertProject", err)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, backend.ErrNotFound
		}
		return nil, backend.Wrap("store.userByEmail", err)
	}
	return user, nil
}

func (s *Store) UpsertMember(ctx context.Context, member models.MemberRecord) error {
	return backend.Wrap("store.upsertMember", s.repos.Members.Upsert(ctx, member))
}

func (s *Store) AppendAudit(ctx context.Context, entry models.AuditLog) error {
	return backend.Wrap("store.audit", s.repos.Audit.Create(ctx, entry))
}
