package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcticroofing/arctic-portal/internal/backend/backendtest"
	"github.com/arcticroofing/arctic-portal/internal/middleware"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

// liveFixture is a fake live backend with one homeowner who belongs to one project.
func liveFixture(t *testing.T) (*backendtest.Fake, *http.Cookie) {
	t.Helper()
	fake := backendtest.New()
	fake.AuthFake.AddSession("owner-token", "owner", "owner@example.com")
	fake.AuthFake.Roles["owner"] = models.RoleHomeowner
	id := fake.StoreFake.AddProject(models.ProjectRecord{ID: "abcdef123456"}, &models.PropertyRecord{Address: "77 Harbor Way"})
	fake.StoreFake.Members["owner"] = []string{id}
	fake.StoreFake.DocRows[id] = []models.DocumentRecord{
		{ID: "contract", Name: "Contract.pdf", FileURL: "project-docs:abc/contract.pdf"},
		{ID: "broken", Name: "Broken.pdf", FileURL: "no-bucket-here"},
	}
	return fake, &http.Cookie{Name: middleware.SessionCookieName, Value: "owner-token"}
}

func TestLive_LoginShowsCheckEmail(t *testing.T) {
	fake := backendtest.New()
	r := newTestRouter(t, fake)

	w := do(r, http.MethodGet, "/portal", nil)
	assert.Contains(t, w.Body.String(), "Secure magic-link sign in")
	assert.Contains(t, w.Body.String(), "Waiting for sign-in")

	w = do(r, http.MethodPost, "/portal/login", url.Values{"email": {"owner@example.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Check your email")
	assert.Equal(t, []string{"owner@example.com"}, fake.AuthFake.LinksSent)
	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, middleware.SessionCookieName, c.Name)
	}
}

func TestLive_LoginProviderErrorIsShown(t *testing.T) {
	fake := backendtest.New()
	fake.AuthFake.SignInErr = errors.New("INVALID_EMAIL")
	w := do(newTestRouter(t, fake), http.MethodPost, "/portal/login", url.Values{"email": {"x"}})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_EMAIL")
}

func TestLive_Callback(t *testing.T) {
	r := newTestRouter(t, backendtest.New())

	w := do(r, http.MethodGet, "/auth/callback?email=new%40example.com&oobCode=valid", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/portal", w.Header().Get("Location"))
	cookie := sessionCookie(t, w)
	assert.Equal(t, url.QueryEscape("tok-new@example.com"), cookie.Value)

	w = do(r, http.MethodGet, "/auth/callback?email=new%40example.com&oobCode=used", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=link-expired")
}

func TestLive_DashboardWithoutMembershipIsEmpty(t *testing.T) {
	fake := backendtest.New()
	fake.AuthFake.AddSession("tok", "lonely", "lonely@example.com")
	w := do(newTestRouter(t, fake), http.MethodGet, "/portal", nil, &http.Cookie{Name: middleware.SessionCookieName, Value: "tok"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No project yet")
	assert.Equal(t, 0, fake.StoreFake.CallCount("TimelineEvents"))
}

func TestLive_Dashboard(t *testing.T) {
	fake, cookie := liveFixture(t)
	w := do(newTestRouter(t, fake), http.MethodGet, "/portal?tab=documents", nil, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "#abcdef12 • 77 Harbor Way")
	assert.Contains(t, body, "Live • Magic link login")
	assert.Contains(t, body, "Secure client portal")
	assert.Contains(t, body, "Contract.pdf")
	assert.NotContains(t, body, "Open Admin")
}

func TestLive_SendMessage(t *testing.T) {
	fake, cookie := liveFixture(t)
	r := newTestRouter(t, fake)

	w := do(r, http.MethodPost, "/portal/messages", url.Values{"body": {"   "}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=message-empty")
	assert.Equal(t, 0, fake.StoreFake.CallCount("InsertMessage"))

	w = do(r, http.MethodPost, "/portal/messages", url.Values{"body": {"When is the dumpster coming?"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "tab=messages")
	require.Len(t, fake.StoreFake.Inserted.Messages, 1)
	assert.Equal(t, "abcdef123456", fake.StoreFake.Inserted.Messages[0].ProjectID)
	assert.Equal(t, "owner", fake.StoreFake.Inserted.Messages[0].FromUserID)

	w = do(r, http.MethodGet, w.Header().Get("Location"), nil, cookie)
	assert.Contains(t, w.Body.String(), "When is the dumpster coming?")
}

func TestLive_SendMessageProviderError(t *testing.T) {
	fake, cookie := liveFixture(t)
	fake.StoreFake.Errs["InsertMessage"] = errors.New("PERMISSION_DENIED")

	w := do(newTestRouter(t, fake), http.MethodPost, "/portal/messages", url.Values{"body": {"hi"}}, cookie)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "PERMISSION_DENIED")
}

func TestLive_DownloadDocument(t *testing.T) {
	fake, cookie := liveFixture(t)
	r := newTestRouter(t, fake)

	w := do(r, http.MethodGet, "/portal/documents/contract/download", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://signed.example/project-docs:abc/contract.pdf", w.Header().Get("Location"))

	for _, id := range []string{"broken", "someone-elses"} {
		w = do(r, http.MethodGet, "/portal/documents/"+id+"/download", nil, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code, id)
		loc := w.Header().Get("Location")
		assert.True(t, strings.HasPrefix(loc, "/portal?"), loc)
		assert.Contains(t, loc, "notice=document-unavailable")
	}
}

func TestLive_AdminForbiddenForHomeowner(t *testing.T) {
	fake, cookie := liveFixture(t)
	r := newTestRouter(t, fake)

	w := do(r, http.MethodGet, "/portal/admin", nil, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "No admin access on this account.")
	assert.NotContains(t, w.Body.String(), "Create project")

	w = do(r, http.MethodPost, "/portal/admin/projects", url.Values{"address": {"1 Main"}}, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, fake.StoreFake.Inserted.Properties)
}

func TestLive_AdminCreateProject(t *testing.T) {
	fake, _ := liveFixture(t)
	fake.AuthFake.AddSession("staff-token", "staff", "pm@arcticroofing.org")
	fake.AuthFake.Roles["staff"] = models.RoleAdmin
	staff := &http.Cookie{Name: middleware.SessionCookieName, Value: "staff-token"}
	r := newTestRouter(t, fake)

	w := do(r, http.MethodGet, "/portal/admin", nil, staff)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Create project")
	assert.Contains(t, w.Body.String(), "77 Harbor Way")

	w = do(r, http.MethodPost, "/portal/admin/projects", url.Values{"address": {"5 Ridge Rd"}}, staff)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=project-created")

	w = do(r, http.MethodPost, "/portal/admin/projects", url.Values{"address": {"6 Ridge Rd"}, "homeowner_email": {"nobody@example.com"}}, staff)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=project-invited")
	assert.Equal(t, []string{"nobody@example.com"}, fake.AuthFake.Invites)

	w = do(r, http.MethodPost, "/portal/admin/projects", url.Values{"city": {"Trenton"}}, staff)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "street address is required")

	w = do(r, http.MethodGet, "/portal/admin", nil, staff)
	assert.Contains(t, w.Body.String(), "5 Ridge Rd")
	assert.Contains(t, w.Body.String(), "6 Ridge Rd")
}

func TestLive_AdminPropertyInsertFailureShowsProviderMessage(t *testing.T) {
	fake, _ := liveFixture(t)
	fake.AuthFake.AddSession("staff-token", "staff", "pm@arcticroofing.org")
	fake.AuthFake.Roles["staff"] = models.RolePM
	fake.StoreFake.Errs["InsertProperty"] = errors.New("properties: quota exceeded")

	w := do(newTestRouter(t, fake), http.MethodPost, "/portal/admin/projects", url.Values{"address": {"9 Pine"}},
		&http.Cookie{Name: middleware.SessionCookieName, Value: "staff-token"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "properties: quota exceeded")
	assert.Contains(t, w.Body.String(), `value="9 Pine"`)
	assert.Equal(t, 0, fake.StoreFake.CallCount("InsertProject"))
}

func TestLive_AdminAddMember(t *testing.T) {
	fake, _ := liveFixture(t)
	fake.AuthFake.AddSession("staff-token", "staff", "pm@arcticroofing.org")
	fake.AuthFake.Roles["staff"] = models.RolePM
	fake.StoreFake.Users["owner"] = models.UserRecord{ID: "owner", Email: "owner@example.com"}
	staff := &http.Cookie{Name: middleware.SessionCookieName, Value: "staff-token"}
	r := newTestRouter(t, fake)

	w := do(r, http.MethodPost, "/portal/admin/projects/p2/members", url.Values{"email": {"owner@example.com"}}, staff)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=access-granted")

	w = do(r, http.MethodPost, "/portal/admin/projects/p2/members", url.Values{"email": {"stranger@example.com"}}, staff)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=member-invited")
}

func TestLive_DemoRosterRoutesHidden(t *testing.T) {
	w := do(newTestRouter(t, backendtest.New()), http.MethodPost, "/portal/admin/homeowners", url.Values{"name": {"a"}, "email": {"b"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
