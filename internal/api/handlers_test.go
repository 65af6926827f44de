package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/backend/backendtest"
	"github.com/arcticroofing/arctic-portal/internal/backend/demo"
	"github.com/arcticroofing/arctic-portal/internal/config"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/middleware"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:      "http://localhost:8080",
		SessionTTL:   time.Hour,
		SignedURLTTL: time.Minute,
	}
}

func newTestRouter(t *testing.T, b backend.Backend) *gin.Engine {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop()
	gate := core.NewSessionGate(b, cfg.BaseURL, logger)
	views := core.NewViewBuilder(b, models.Contractor{Name: "Arctic Roofing & Restoration"}, logger)
	svc := Services{
		Gate:      gate,
		Views:     views,
		Messages:  core.NewMessageService(b, logger),
		Documents: core.NewDocumentService(b, cfg.SignedURLTTL),
		Admin:     core.NewAdminService(b, gate, core.NewAuditService(b.Store()), logger),
		Roster:    core.NewDemoRoster(cfg.BaseURL),
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(logger))
	require.NoError(t, SetupRoutes(router, cfg, logger, svc))
	return router
}

func newDemoRouter(t *testing.T) *gin.Engine {
	t.Helper()
	b, err := demo.New(nil)
	require.NoError(t, err)
	return newTestRouter(t, b)
}

func do(r http.Handler, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func demoLogin(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	w := do(r, http.MethodPost, "/portal/login", url.Values{"email": {"whoever@example.com"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/portal", w.Header().Get("Location"))
	return sessionCookie(t, w)
}

func TestHealth(t *testing.T) {
	w := do(newDemoRouter(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP","mode":"demo"}`, w.Body.String())
}

func TestLanding(t *testing.T) {
	w := do(newDemoRouter(t), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/portal"`)
}

func TestPortal_SignedOutShowsDemoLogin(t *testing.T) {
	w := do(newDemoRouter(t), http.MethodGet, "/portal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Demo mode • no database (enter any email)")
	assert.Contains(t, body, "Enter demo portal")
	assert.Contains(t, body, "Demo • Connect Firebase to go live")
}

func TestPortal_DemoAlwaysShowsSampleProject(t *testing.T) {
	r := newDemoRouter(t)
	for _, email := range []string{"a@example.com", "", "nonsense"} {
		w := do(r, http.MethodPost, "/portal/login", url.Values{"email": {email}})
		require.Equal(t, http.StatusSeeOther, w.Code, email)

		w = do(r, http.MethodGet, "/portal", nil, sessionCookie(t, w))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "#AR-24518 • 123 Maple Ave, Hamilton, NJ")
		assert.Contains(t, w.Body.String(), "43%")
	}
}

func TestPortal_Tabs(t *testing.T) {
	r := newDemoRouter(t)
	cookie := demoLogin(t, r)

	tests := []struct {
		tab  string
		want string
	}{
		{"overview", "What to Expect"},
		{"bogus", "What to Expect"},
		{"timeline", "Claim Approved / Retail Accepted"},
		{"photos", "Before – Front Elevation"},
		{"documents", "Signed Proposal.pdf"},
		{"messages", "Hi! Install on Tue 11/18."},
		{"payments", "$17,250"},
	}
	for _, tt := range tests {
		t.Run(tt.tab, func(t *testing.T) {
			w := do(r, http.MethodGet, "/portal?tab="+tt.tab, nil, cookie)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}

	w := do(r, http.MethodGet, "/portal?tab=overview", nil, cookie)
	assert.Contains(t, w.Body.String(), "Dumpster Drop on <b>2025-11-17</b>")
	assert.Contains(t, w.Body.String(), "Install Day on <b>2025-11-18</b>")
}

func TestPortal_DemoDownloadNeverLeaves(t *testing.T) {
	r := newDemoRouter(t)
	cookie := demoLogin(t, r)

	w := do(r, http.MethodGet, "/portal/documents/doc1/download", nil, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/portal?"), loc)
	assert.Contains(t, loc, "notice=demo-storage")

	w = do(r, http.MethodGet, loc, nil, cookie)
	assert.Contains(t, w.Body.String(), "Demo: not connected to storage.")
}

func TestPortal_DemoMessagingDisabled(t *testing.T) {
	r := newDemoRouter(t)
	cookie := demoLogin(t, r)

	w := do(r, http.MethodPost, "/portal/messages", url.Values{"body": {"hello"}}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "notice=messaging-disabled")
}

func TestPortal_AnonymousActionsRedirectToLogin(t *testing.T) {
	r := newDemoRouter(t)
	w := do(r, http.MethodPost, "/portal/messages", url.Values{"body": {"hello"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/portal", w.Header().Get("Location"))
}

func TestPortal_InviteTokenPrefillsEmail(t *testing.T) {
	r := newDemoRouter(t)
	roster := core.NewDemoRoster("http://localhost:8080")
	link := roster.InviteLink(roster.List()[0])
	u, err := url.Parse(link)
	require.NoError(t, err)

	w := do(r, http.MethodGet, u.RequestURI(), nil)
	assert.Contains(t, w.Body.String(), `value="jane@example.com"`)

	w = do(r, http.MethodGet, "/portal?token=garbage", nil)
	assert.Contains(t, w.Body.String(), "That invite link is not valid.")
}

func TestPortal_UnknownNoticeIgnored(t *testing.T) {
	w := do(newDemoRouter(t), http.MethodGet, "/portal?notice=<script>", nil)
	assert.NotContains(t, w.Body.String(), "<script>")
	assert.NotContains(t, w.Body.String(), `class="banner`)
}

func TestLogout_ClearsCookie(t *testing.T) {
	r := newDemoRouter(t)
	cookie := demoLogin(t, r)

	w := do(r, http.MethodPost, "/portal/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestEvents_DemoNotFound(t *testing.T) {
	r := newDemoRouter(t)
	cookie := demoLogin(t, r)
	w := do(r, http.MethodGet, "/portal/events", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvents_LiveAnonymous(t *testing.T) {
	w := do(newTestRouter(t, backendtest.New()), http.MethodGet, "/portal/events", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDemoAdminRoster(t *testing.T) {
	r := newDemoRouter(t)

	w := do(r, http.MethodGet, "/portal/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")
	assert.Contains(t, w.Body.String(), "http://localhost:8080/portal?token=")

	w = do(r, http.MethodPost, "/portal/admin/homeowners", url.Values{"name": {"Sam Lee"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), core.ErrHomeownerFieldsRequired.Error())

	w = do(r, http.MethodPost, "/portal/admin/homeowners", url.Values{"name": {"Sam Lee"}, "email": {"sam@example.com"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = do(r, http.MethodGet, "/portal/admin", nil)
	assert.Contains(t, w.Body.String(), "Sam Lee")

	w = do(r, http.MethodPost, "/portal/admin/homeowners/u1/revoke", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = do(r, http.MethodGet, "/portal/admin", nil)
	assert.NotContains(t, w.Body.String(), "Jane Doe")
}

func TestAPI_Session(t *testing.T) {
	r := newDemoRouter(t)

	w := do(r, http.MethodGet, "/api/v1/session", nil)
	assert.JSONEq(t, `{"mode":"demo","session":null}`, w.Body.String())

	cookie := demoLogin(t, r)
	w = do(r, http.MethodGet, "/api/v1/session", nil, cookie)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Session)
	assert.Equal(t, "demo-user", resp.Session.User.ID)
}

func TestAPI_Project(t *testing.T) {
	w := do(newDemoRouter(t), http.MethodGet, "/api/v1/project", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view models.ProjectView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.Project)
	assert.Equal(t, "AR-24518", view.Project.ID)

	w = do(newTestRouter(t, backendtest.New()), http.MethodGet, "/api/v1/project", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$17,250", formatCurrency(17250))
	assert.Equal(t, "$0", formatCurrency(0))
	assert.Equal(t, "$1,234.50", formatCurrency(1234.5))
}

func TestEveryTabHasATemplate(t *testing.T) {
	tmpl, err := parseTemplates()
	require.NoError(t, err)
	for _, tab := range models.Tabs {
		assert.NotNil(t, tmpl.Lookup(tab.Template()), tab)
	}
}
