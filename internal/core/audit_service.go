package core

import (
	"context"
	"fmt"

	"github.com/arcticroofing/arctic-portal/internal/models"
)

// Audit actions recorded for staff operations.
const (
	AuditProjectCreate = "PROJECT_CREATE"
	AuditMemberGrant   = "MEMBER_GRANT"
	AuditInviteSent    = "INVITE_SENT"
)

// AuditSink stores audit entries. backend.Store satisfies it.
type AuditSink interface {
	AppendAudit(ctx context.Context, entry models.AuditLog) error
}

// auditService implements the AuditService interface.
type auditService struct {
	sink AuditSink
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(sink AuditSink) AuditService {
	return &auditService{sink: sink}
}

// CreateAuditLog creates a new audit log entry.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if err := s.sink.AppendAudit(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}
