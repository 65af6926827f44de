package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

type firestoreMemberRepository struct {
	client *firestore.Client
}

// NewFirestoreMemberRepository creates a MemberRepository backed by the project_members collection.
func NewFirestoreMemberRepository(client *firestore.Client) MemberRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for MemberRepository.")
	}
	return &firestoreMemberRepository{client: client}
}

// memberDocID is deterministic so that granting access twice overwrites the same row.
func memberDocID(projectID, userID string) string {
	return projectID + "_" + userID
}

func (r *firestoreMemberRepository) ProjectIDsForUser(ctx context.Context, userID string) ([]string, error) {
	iter := r.client.Collection(projectMembersCollection).Where("user_id", "==", userID).Documents(ctx)
	members, err := decodeAll(iter, func(*models.MemberRecord, string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships for user '%s': %w", userID, err)
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ProjectID)
	}
	return ids, nil
}

func (r *firestoreMemberRepository) Upsert(ctx context.Context, member models.MemberRecord) error {
	if member.ProjectID == "" || member.UserID == "" {
		return errors.New("project ID and user ID are required for a membership")
	}
	_, err := r.client.Collection(projectMembersCollection).Doc(memberDocID(member.ProjectID, member.UserID)).Set(ctx, member)
	if err != nil {
		return fmt.Errorf("failed to upsert membership %s/%s: %w", member.ProjectID, member.UserID, err)
	}
	return nil
}
