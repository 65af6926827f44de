package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

// The rows attached to a project are read with a single equality filter and
// ordered by the caller, so no composite indexes are needed.

func listByProject[T any](ctx context.Context, client *firestore.Client, collection, projectID string, setID func(*T, string)) ([]T, error) {
	iter := client.Collection(collection).Where("project_id", "==", projectID).Documents(ctx)
	rows, err := decodeAll(iter, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s for project '%s': %w", collection, projectID, err)
	}
	return rows, nil
}

type firestoreTimelineRepository struct{ client *firestore.Client }

func NewFirestoreTimelineRepository(client *firestore.Client) TimelineRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for TimelineRepository.")
	}
	return &firestoreTimelineRepository{client: client}
}

func (r *firestoreTimelineRepository) ListByProject(ctx context.Context, projectID string) ([]models.TimelineEventRecord, error) {
	return listByProject(ctx, r.client, timelineCollection, projectID, func(t *models.TimelineEventRecord, id string) { t.ID = id })
}

type firestorePhotoRepository struct{ client *firestore.Client }

func NewFirestorePhotoRepository(client *firestore.Client) PhotoRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PhotoRepository.")
	}
	return &firestorePhotoRepository{client: client}
}

func (r *firestorePhotoRepository) ListByProject(ctx context.Context, projectID string) ([]models.PhotoRecord, error) {
	return listByProject(ctx, r.client, photosCollection, projectID, func(p *models.PhotoRecord, id string) { p.ID = id })
}

type firestoreDocumentRepository struct{ client *firestore.Client }

func NewFirestoreDocumentRepository(client *firestore.Client) DocumentRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for DocumentRepository.")
	}
	return &firestoreDocumentRepository{client: client}
}

func (r *firestoreDocumentRepository) ListByProject(ctx context.Context, projectID string) ([]models.DocumentRecord, error) {
	return listByProject(ctx, r.client, documentsCollection, projectID, func(d *models.DocumentRecord, id string) { d.ID = id })
}

type firestoreMessageRepository struct{ client *firestore.Client }

func NewFirestoreMessageRepository(client *firestore.Client) MessageRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for MessageRepository.")
	}
	return &firestoreMessageRepository{client: client}
}

func (r *firestoreMessageRepository) ListByProject(ctx context.Context, projectID string) ([]models.MessageRecord, error) {
	return listByProject(ctx, r.client, messagesCollection, projectID, func(m *models.MessageRecord, id string) { m.ID = id })
}

func (r *firestoreMessageRepository) Create(ctx context.Context, msg *models.MessageRecord) (string, error) {
	ref := r.client.Collection(messagesCollection).NewDoc()
	if _, err := ref.Create(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}
	msg.ID = ref.ID
	return ref.ID, nil
}
