package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/backend/backendtest"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

func newAdminFixture(t *testing.T) (*backendtest.Fake, AdminService, *models.Session) {
	t.Helper()
	fake := backendtest.New()
	fake.AuthFake.Roles["staff"] = models.RolePM
	gate := NewSessionGate(fake, "https://portal.example.com", zap.NewNop())
	svc := NewAdminService(fake, gate, NewAuditService(fake.StoreFake), zap.NewNop())
	return fake, svc, liveSession("staff")
}

func TestAdminService_NonStaffIsForbidden(t *testing.T) {
	fake, svc, _ := newAdminFixture(t)
	fake.AuthFake.Roles["owner"] = models.RoleHomeowner
	owner := liveSession("owner")
	ctx := context.Background()

	_, err := svc.ListProjects(ctx, owner)
	assert.ErrorIs(t, err, ErrAdminForbidden)
	_, err = svc.CreateProject(ctx, owner, models.CreateProjectRequest{Address: "1 Main St"})
	assert.ErrorIs(t, err, ErrAdminForbidden)
	_, err = svc.AddMember(ctx, owner, "p1", "x@example.com")
	assert.ErrorIs(t, err, ErrAdminForbidden)

	assert.Equal(t, 0, fake.StoreFake.CallCount("ListProjects"))
	assert.Equal(t, 0, fake.StoreFake.CallCount("InsertProperty"))
	assert.Equal(t, 0, fake.StoreFake.CallCount("UserByEmail"))
}

func TestAdminService_ListProjectsNewestFirst(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	fake.StoreFake.AddProject(models.ProjectRecord{ID: "a", CreatedAt: base}, nil)
	fake.StoreFake.AddProject(models.ProjectRecord{ID: "c", CreatedAt: base.Add(2 * time.Hour)}, nil)
	fake.StoreFake.AddProject(models.ProjectRecord{ID: "b", CreatedAt: base.Add(time.Hour)}, nil)

	rows, err := svc.ListProjects(context.Background(), staff)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestAdminService_CreateProjectAddressOnly(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)
	ctx := context.Background()

	before, err := svc.ListProjects(ctx, staff)
	require.NoError(t, err)

	result, err := svc.CreateProject(ctx, staff, models.CreateProjectRequest{Address: "  12 Shore Rd  "})
	require.NoError(t, err)
	assert.Equal(t, models.MemberNone, result.Outcome)
	assert.Equal(t, "12 Shore Rd", result.Project.Property.Address)
	assert.Equal(t, "Scheduled", result.Project.Status)
	assert.Nil(t, result.Project.InstallDate)

	after, err := svc.ListProjects(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	assert.Len(t, fake.StoreFake.Inserted.Projects, 1)
	assert.Len(t, fake.StoreFake.Inserted.Properties, 1)
	assert.Equal(t, fake.StoreFake.Inserted.Properties[0].ID, fake.StoreFake.Inserted.Projects[0].PropertyID)

	require.Len(t, fake.StoreFake.Inserted.Audit, 1)
	assert.Equal(t, AuditProjectCreate, fake.StoreFake.Inserted.Audit[0].Action)
	assert.Equal(t, "staff", fake.StoreFake.Inserted.Audit[0].UserID)
}

func TestAdminService_CreateProjectRequiresAddress(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)
	_, err := svc.CreateProject(context.Background(), staff, models.CreateProjectRequest{City: "Hamilton"})
	assert.ErrorIs(t, err, ErrAddressRequired)
	assert.Equal(t, 0, fake.StoreFake.CallCount("InsertProperty"))
}

func TestAdminService_CreateProjectInvitesUnknownEmail(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)

	result, err := svc.CreateProject(context.Background(), staff, models.CreateProjectRequest{
		Address:        "4 Birch Ln",
		InstallDate:    "2026-03-02",
		HomeownerEmail: " New.Owner@Example.com ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MemberInvited, result.Outcome)
	assert.Equal(t, []string{"new.owner@example.com"}, fake.AuthFake.Invites)
	assert.Empty(t, fake.StoreFake.Inserted.Members)
	require.NotNil(t, result.Project.InstallDate)
	assert.Equal(t, "2026-03-02", *result.Project.InstallDate)
}

func TestAdminService_CreateProjectGrantsExistingUser(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)
	fake.StoreFake.Users["u9"] = models.UserRecord{ID: "u9", Email: "owner@example.com", Role: models.RoleHomeowner}

	result, err := svc.CreateProject(context.Background(), staff, models.CreateProjectRequest{Address: "4 Birch Ln", HomeownerEmail: "owner@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.MemberGranted, result.Outcome)
	assert.Empty(t, fake.AuthFake.Invites)
	require.Len(t, fake.StoreFake.Inserted.Members, 1)
	assert.Equal(t, models.MemberRecord{ProjectID: result.Project.ID, UserID: "u9", Role: models.RoleHomeowner}, fake.StoreFake.Inserted.Members[0])
}

func TestAdminService_PropertyInsertFailureAborts(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)
	fake.StoreFake.Errs["InsertProperty"] = errors.New("permission denied on properties")

	_, err := svc.CreateProject(context.Background(), staff, models.CreateProjectRequest{Address: "1 Main"})
	require.Error(t, err)
	assert.True(t, backend.IsProviderError(err))
	assert.Equal(t, "permission denied on properties", err.Error())
	assert.Equal(t, 0, fake.StoreFake.CallCount("InsertProject"))
}

func TestAdminService_ProjectInsertFailureLeavesProperty(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)
	fake.StoreFake.Errs["InsertProject"] = errors.New("quota exceeded")

	_, err := svc.CreateProject(context.Background(), staff, models.CreateProjectRequest{Address: "1 Main"})
	require.Error(t, err)
	assert.Len(t, fake.StoreFake.Inserted.Properties, 1)
	assert.Empty(t, fake.StoreFake.Inserted.Projects)
}

func TestAdminService_AuditFailureDoesNotFailAction(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)
	fake.StoreFake.Errs["AppendAudit"] = errors.New("audit down")

	_, err := svc.CreateProject(context.Background(), staff, models.CreateProjectRequest{Address: "1 Main"})
	assert.NoError(t, err)
}

func TestAdminService_AddMember(t *testing.T) {
	fake, svc, staff := newAdminFixture(t)
	fake.StoreFake.Users["u9"] = models.UserRecord{ID: "u9", Email: "owner@example.com"}
	ctx := context.Background()

	outcome, err := svc.AddMember(ctx, staff, "p1", "OWNER@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.MemberGranted, outcome)

	outcome, err = svc.AddMember(ctx, staff, "p1", "stranger@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.MemberInvited, outcome)

	outcome, err = svc.AddMember(ctx, staff, "p1", "  ")
	require.NoError(t, err)
	assert.Equal(t, models.MemberNone, outcome)

	assert.Equal(t, []string{"p1"}, fake.StoreFake.Members["u9"])
	assert.Equal(t, []string{"stranger@example.com"}, fake.AuthFake.Invites)
}
