package core

import (
	"context"
	"errors"
	"time"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// ErrDocumentNotFound is returned when the document is not part of the current project.
var ErrDocumentNotFound = errors.New("document not found")

// documentService implements the DocumentService interface.
type documentService struct {
	storage backend.Storage
	ttl     time.Duration
}

// NewDocumentService creates a new DocumentService. ttl is how long issued URLs stay valid.
func NewDocumentService(b backend.Backend, ttl time.Duration) DocumentService {
	return &documentService{storage: b.Storage(), ttl: ttl}
}

// DownloadURL only signs documents that belong to the view's project, so a
// homeowner cannot request arbitrary storage paths.
func (s *documentService) DownloadURL(ctx context.Context, view *models.ProjectView, documentID string) (string, error) {
	if view == nil {
		return "", ErrDocumentNotFound
	}
	doc, ok := view.Project.Document(documentID)
	if !ok {
		return "", ErrDocumentNotFound
	}
	return s.storage.SignedURL(ctx, doc.FileURL, s.ttl)
}
