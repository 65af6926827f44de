package demo

import (
	"context"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// Store serves the fixture to every user and refuses writes.
type Store struct {
	fixture *Fixture
}

var _ backend.Store = (*Store)(nil)

// MemberProjectIDs ignores the user: everyone belongs to the sample project.
func (s *Store) MemberProjectIDs(context.Context, string) ([]string, error) {
	return []string{s.fixture.Project.ID}, nil
}

func (s *Store) ProjectsByIDs(_ context.Context, ids []string) ([]models.ProjectRow, error) {
	for _, id := range ids {
		if id == s.fixture.Project.ID {
			return []models.ProjectRow{s.fixture.Row()}, nil
		}
	}
	return nil, nil
}

func (s *Store) ListProjects(context.Context) ([]models.ProjectRow, error) {
	return []models.ProjectRow{s.fixture.Row()}, nil
}

func (s *Store) TimelineEvents(_ context.Context, projectID string) ([]models.TimelineEventRecord, error) {
	if projectID != s.fixture.Project.ID {
		return nil, nil
	}
	return append([]models.TimelineEventRecord(nil), s.fixture.Timeline...), nil
}

func (s *Store) Photos(_ context.Context, projectID string) ([]models.PhotoRecord, error) {
	if projectID != s.fixture.Project.ID {
		return nil, nil
	}
	return append([]models.PhotoRecord(nil), s.fixture.Photos...), nil
}

func (s *Store) Documents(_ context.Context, projectID string) ([]models.DocumentRecord, error) {
	if projectID != s.fixture.Project.ID {
		return nil, nil
	}
	return append([]models.DocumentRecord(nil), s.fixture.Documents...), nil
}

func (s *Store) Messages(_ context.Context, projectID string) ([]models.MessageRow, error) {
	if projectID != s.fixture.Project.ID {
		return nil, nil
	}
	return append([]models.MessageRow(nil), s.fixture.Messages...), nil
}

func (s *Store) InsertMessage(context.Context, *models.MessageRecord) (string, error) {
	return "", backend.ErrNotConnected
}

func (s *Store) InsertProperty(context.Context, *models.PropertyRecord) (string, error) {
	return "", backend.ErrNotConnected
}

func (s *Store) InsertProject(context.Context, *models.ProjectRecord) (string, error) {
	return "", backend.ErrNotConnected
}

func (s *Store) UserByEmail(context.Context, string) (*models.UserRecord, error) {
	return nil, backend.ErrNotConnected
}

func (s *Store) UpsertMember(context.Context, models.MemberRecord) error {
	return backend.ErrNotConnected
}

func (s *Store) AppendAudit(context.Context, models.AuditLog) error {
	return backend.ErrNotConnected
}
