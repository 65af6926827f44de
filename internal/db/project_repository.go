package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

type firestoreProjectRepository struct {
	client *firestore.Client
}

// NewFirestoreProjectRepository creates a ProjectRepository backed by the projects collection.
func NewFirestoreProjectRepository(client *firestore.Client) ProjectRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ProjectRepository.")
	}
	return &firestoreProjectRepository{client: client}
}

func setProjectID(p *models.ProjectRecord, id string) { p.ID = id }

// Create stores a project under a generated ID and returns that ID.
func (r *firestoreProjectRepository) Create(ctx context.Context, project *models.ProjectRecord) (string, error) {
	ref := r.client.Collection(projectsCollection).NewDoc()
	if _, err := ref.Create(ctx, project); err != nil {
		return "", fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreProjectRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.ProjectRecord, error) {
	found, err := getMany(ctx, r.client, projectsCollection, ids, setProjectID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.ProjectRecord, 0, len(found))
	for _, p := range found {
		out = append(out, p)
	}
	return out, nil
}

// List returns every project, newest first.
func (r *firestoreProjectRepository) List(ctx context.Context) ([]*models.ProjectRecord, error) {
	iter := r.client.Collection(projectsCollection).OrderBy("created_at", firestore.Desc).Documents(ctx)
	rows, err := decodeAll(iter, setProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	out := make([]*models.ProjectRecord, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

type firestorePropertyRepository struct {
	client *firestore.Client
}

// NewFirestorePropertyRepository creates a PropertyRepository backed by the properties collection.
func NewFirestorePropertyRepository(client *firestore.Client) PropertyRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PropertyRepository.")
	}
	return &firestorePropertyRepository{client: client}
}

func setPropertyID(p *models.PropertyRecord, id string) { p.ID = id }

func (r *firestorePropertyRepository) Create(ctx context.Context, prop *models.PropertyRecord) (string, error) {
	ref := r.client.Collection(propertiesCollection).NewDoc()
	if _, err := ref.Create(ctx, prop); err != nil {
		return "", fmt.Errorf("failed to create property: %w", err)
	}
	prop.ID = ref.ID
	return ref.ID, nil
}

func (r *firestorePropertyRepository) GetMany(ctx context.Context, ids []string) (map[string]*models.PropertyRecord, error) {
	return getMany(ctx, r.client, propertiesCollection, ids, setPropertyID)
}
