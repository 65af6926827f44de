package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// ErrAddressRequired is returned when a project is created without a street address.
var ErrAddressRequired = errors.New("street address is required")

// adminService implements the AdminService interface.
type adminService struct {
	gate         *SessionGate
	store        backend.Store
	auth         backend.Auth
	auditService AuditService
	logger       *zap.Logger
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(b backend.Backend, gate *SessionGate, as AuditService, logger *zap.Logger) AdminService {
	return &adminService{
		gate:         gate,
		store:        b.Store(),
		auth:         b.Auth(),
		auditService: as,
		logger:       logger,
	}
}

// ListProjects returns every project, newest first. Staff are not scoped by membership.
func (s *adminService) ListProjects(ctx context.Context, session *models.Session) ([]models.ProjectRow, error) {
	if _, err := s.gate.AuthorizeAdmin(ctx, session); err != nil {
		return nil, err
	}
	rows, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(rows)
	return rows, nil
}

// CreateProject inserts the property, then the project that references it.
// A failed property insert stops before the project insert. A failed project
// insert leaves the property row behind; nothing is rolled back.
func (s *adminService) CreateProject(ctx context.Context, session *models.Session, req models.CreateProjectRequest) (*models.CreateProjectResult, error) {
	if _, err := s.gate.AuthorizeAdmin(ctx, session); err != nil {
		return nil, err
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	now := time.Now().UTC()
	property := &models.PropertyRecord{
		Address:   address,
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		Zip:       strings.TrimSpace(req.Zip),
		CreatedAt: now,
	}
	propertyID, err := s.store.InsertProperty(ctx, property)
	if err != nil {
		return nil, err
	}

	project := &models.ProjectRecord{
		PropertyID:    propertyID,
		Status:        orDefault(strings.TrimSpace(req.Status), defaultStatus),
		ArrivalWindow: strings.TrimSpace(req.ArrivalWindow),
		CreatedAt:     now,
	}
	if d := strings.TrimSpace(req.InstallDate); d != "" {
		project.InstallDate = &d
	}
	projectID, err := s.store.InsertProject(ctx, project)
	if err != nil {
		s.logger.Warn("project insert failed after property insert", zap.String("property_id", propertyID), zap.Error(err))
		return nil, err
	}
	project.ID = projectID
	property.ID = propertyID

	s.audit(ctx, session, models.AuditLog{
		Action:     AuditProjectCreate,
		TargetType: "project",
		TargetID:   projectID,
		Details:    map[string]interface{}{"address": address},
	})

	result := &models.CreateProjectResult{
		Project: models.ProjectRow{ProjectRecord: *project, Property: property},
	}
	if email := normalizeEmail(req.HomeownerEmail); email != "" {
		outcome, err := s.grantOrInvite(ctx, session, projectID, email)
		if err != nil {
			return result, fmt.Errorf("project created but homeowner not added: %w", err)
		}
		result.Outcome = outcome
	}
	return result, nil
}

// AddMember grants an existing user access to projectID, or invites them.
func (s *adminService) AddMember(ctx context.Context, session *models.Session, projectID, email string) (models.MemberOutcome, error) {
	if _, err := s.gate.AuthorizeAdmin(ctx, session); err != nil {
		return models.MemberNone, err
	}
	email = normalizeEmail(email)
	if email == "" {
		return models.MemberNone, nil
	}
	return s.grantOrInvite(ctx, session, projectID, email)
}

func (s *adminService) grantOrInvite(ctx context.Context, session *models.Session, projectID, email string) (models.MemberOutcome, error) {
	user, err := s.store.UserByEmail(ctx, email)
	switch {
	case err == nil:
		member := models.MemberRecord{ProjectID: projectID, UserID: user.ID, Role: models.RoleHomeowner}
		if err := s.store.UpsertMember(ctx, member); err != nil {
			return models.MemberNone, err
		}
		s.audit(ctx, session, models.AuditLog{
			Action:     AuditMemberGrant,
			TargetType: "project",
			TargetID:   projectID,
			Details:    map[string]interface{}{"user_id": user.ID},
		})
		return models.MemberGranted, nil

	case errors.Is(err, backend.ErrNotFound):
		if err := s.auth.Invite(ctx, email, s.gate.RedirectURL(email)); err != nil {
			return models.MemberNone, err
		}
		s.audit(ctx, session, models.AuditLog{
			Action:     AuditInviteSent,
			TargetType: "project",
			TargetID:   projectID,
			Details:    map[string]interface{}{"email": email},
		})
		return models.MemberInvited, nil

	default:
		return models.MemberNone, err
	}
}

// audit records a staff action. A failed append is logged and otherwise ignored.
func (s *adminService) audit(ctx context.Context, session *models.Session, entry models.AuditLog) {
	if s.auditService == nil {
		return
	}
	entry.UserID = session.User.ID
	entry.Timestamp = time.Now().UTC()
	if err := s.auditService.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Error("failed to create audit log", zap.String("action", entry.Action), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
