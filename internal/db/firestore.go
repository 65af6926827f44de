package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Collection names, one per stored table.
const (
	usersCollection          = "users"
	propertiesCollection     = "properties"
	projectsCollection       = "projects"
	projectMembersCollection = "project_members"
	timelineCollection       = "timeline_events"
	photosCollection         = "photos"
	documentsCollection      = "documents"
	messagesCollection       = "messages"
	auditLogsCollection      = "audit_logs"
)

// ErrNotFound is returned when a document is not found in Firestore.
var ErrNotFound = errors.New("document not found")

// Repositories groups every Firestore repository over one client.
type Repositories struct {
	Users      UserRepository
	Properties PropertyRepository
	Projects   ProjectRepository
	Members    MemberRepository
	Timeline   TimelineRepository
	Photos     PhotoRepository
	Documents  DocumentRepository
	Messages   MessageRepository
	Audit      AuditRepository
}

// NewRepositories wires all Firestore repositories to client.
func NewRepositories(client *firestore.Client) *Repositories {
	return &Repositories{
		Users:      NewFirestoreUserRepository(client),
		Properties: NewFirestorePropertyRepository(client),
		Projects:   NewFirestoreProjectRepository(client),
		Members:    NewFirestoreMemberRepository(client),
		Timeline:   NewFirestoreTimelineRepository(client),
		Photos:     NewFirestorePhotoRepository(client),
		Documents:  NewFirestoreDocumentRepository(client),
		Messages:   NewFirestoreMessageRepository(client),
		Audit:      NewFirestoreAuditRepository(client),
	}
}

// decodeAll drains iter, decoding each document into T and stamping its ID.
func decodeAll[T any](iter *firestore.DocumentIterator, setID func(*T, string)) ([]T, error) {
	defer iter.Stop()
	var out []T
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("failed to decode document '%s': %w", doc.Ref.ID, err)
		}
		setID(&v, doc.Ref.ID)
		out = append(out, v)
	}
	return out, nil
}

// getMany batch-reads the documents with the given IDs, skipping missing ones.
func getMany[T any](ctx context.Context, client *firestore.Client, collection string, ids []string, setID func(*T, string)) (map[string]*T, error) {
	out := make(map[string]*T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	seen := make(map[string]bool, len(ids))
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		refs = append(refs, client.Collection(collection).Doc(id))
	}
	snaps, err := client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get %s: %w", collection, err)
	}
	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}
		v := new(T)
		if err := snap.DataTo(v); err != nil {
			return nil, fmt.Errorf("failed to decode %s '%s': %w", collection, snap.Ref.ID, err)
		}
		setID(v, snap.Ref.ID)
		out[snap.Ref.ID] = v
	}
	return out, nil
}
