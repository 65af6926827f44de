package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/config"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/middleware"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

const (
	portalPath = "/portal"
	// pendingEmailCookie remembers who asked for a magic link so the waiting
	// tab can be told when that address signs in.
	pendingEmailCookie = "arctic_pending_email"
	pendingEmailTTL    = 30 * time.Minute
	upcomingCount      = 2
)

// PortalHandler serves the homeowner pages.
type PortalHandler struct {
	gate      *core.SessionGate
	views     core.ViewService
	messages  core.MessageService
	documents core.DocumentService
	cfg       *config.Config
	logger    *zap.Logger
}

// NewPortalHandler creates a new PortalHandler.
func NewPortalHandler(gate *core.SessionGate, vs core.ViewService, ms core.MessageService, ds core.DocumentService, cfg *config.Config, logger *zap.Logger) *PortalHandler {
	return &PortalHandler{gate: gate, views: vs, messages: ms, documents: ds, cfg: cfg, logger: logger}
}

// Landing handles GET /
func (h *PortalHandler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing", newPageData(h.gate, middleware.SessionFrom(c), "Arctic Roofing"))
}

// Portal handles GET /portal: the login page when signed out, else the dashboard.
func (h *PortalHandler) Portal(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		h.renderLogin(c, http.StatusOK, parseNotice(c.Query("notice")))
		return
	}
	h.renderDashboard(c, session, models.ParseTab(c.Query("tab")), parseNotice(c.Query("notice")), http.StatusOK)
}

func (h *PortalHandler) renderLogin(c *gin.Context, status int, banner *Banner) {
	data := newPageData(h.gate, nil, "Sign in")
	data.Banner = banner
	if token := c.Query("token"); token != "" {
		email, _, err := core.ParseInviteToken(token)
		if err != nil {
			data.Banner = parseNotice(string(NoticeInvalidInvite))
		} else {
			data.Email = email
		}
	}
	c.HTML(status, "login", data)
}

func (h *PortalHandler) renderDashboard(c *gin.Context, session *models.Session, tab models.Tab, banner *Banner, status int) {
	ctx := c.Request.Context()
	view := h.views.Build(ctx, session)

	data := newPageData(h.gate, session, "Your project")
	data.Banner = banner
	data.View = view
	data.Tab = tab
	data.Tabs = models.Tabs
	data.Upcoming = view.Project.Upcoming(upcomingCount)
	if h.gate.Mode() == backend.ModeDemo {
		data.CanAdmin = true
	} else if _, err := h.gate.AuthorizeAdmin(ctx, session); err == nil {
		data.CanAdmin = true
	}
	c.HTML(status, "dashboard", data)
}

// Login handles POST /portal/login
func (h *PortalHandler) Login(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, errorBanner("Enter your email address."))
		return
	}

	result, err := h.gate.SignInWithEmail(c.Request.Context(), req.Email)
	if err != nil {
		status, resp := mapErrorToStatus(err)
		msg := resp.Error
		if resp.Details != "" {
			msg = resp.Details
		}
		_ = c.Error(err)
		data := newPageData(h.gate, nil, "Sign in")
		data.Email = req.Email
		data.Banner = errorBanner(msg)
		c.HTML(status, "login", data)
		return
	}

	if result.Session != nil {
		middleware.SetSessionCookie(c, result.Token, h.cfg.SessionTTL, h.cfg.SecureCookies())
		c.Redirect(http.StatusSeeOther, portalPath)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(pendingEmailCookie, strings.ToLower(strings.TrimSpace(req.Email)), int(pendingEmailTTL.Seconds()), portalPath, "", h.cfg.SecureCookies(), true)
	data := newPageData(h.gate, nil, "Check your email")
	data.Email = strings.TrimSpace(req.Email)
	data.CheckEmail = true
	c.HTML(http.StatusOK, "login", data)
}

// Callback handles GET /auth/callback, the landing point of emailed links.
func (h *PortalHandler) Callback(c *gin.Context) {
	email, oobCode := c.Query("email"), c.Query("oobCode")
	if email == "" || oobCode == "" {
		c.Redirect(http.StatusSeeOther, withNotice(portalPath, NoticeLinkExpired))
		return
	}
	result, err := h.gate.CompleteEmailLink(c.Request.Context(), email, oobCode)
	if err != nil {
		h.logger.Warn("email link sign-in failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, withNotice(portalPath, NoticeLinkExpired))
		return
	}
	middleware.SetSessionCookie(c, result.Token, h.cfg.SessionTTL, h.cfg.SecureCookies())
	c.Redirect(http.StatusSeeOther, portalPath)
}

// Logout handles POST /portal/logout
func (h *PortalHandler) Logout(c *gin.Context) {
	if err := h.gate.SignOut(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
		h.logger.Warn("sign-out failed", zap.Error(err))
	}
	middleware.ClearSessionCookie(c, h.cfg.SecureCookies())
	c.Redirect(http.StatusSeeOther, withNotice(portalPath, NoticeSignedOut))
}

// Events handles GET /portal/events, a server-sent stream of session changes
// for the signed-in user or the address waiting on a magic link.
func (h *PortalHandler) Events(c *gin.Context) {
	session := middleware.SessionFrom(c)
	pending, _ := c.Cookie(pendingEmailCookie)
	if session == nil && pending == "" {
		abortWithError(c, backend.ErrNoSession)
		return
	}

	filter := func(ev models.SessionEvent) bool {
		if session != nil && ev.UserID == session.User.ID {
			return true
		}
		return pending != "" && strings.EqualFold(ev.Email, pending)
	}
	events, err := h.gate.Watch(c.Request.Context(), filter)
	if errors.Is(err, backend.ErrUnsupported) {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Session events are only available in live mode"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent(string(ev.Kind), ev)
		return true
	})
}

// SendMessage handles POST /portal/messages. The new message is shown by the
// redirected GET, not appended locally.
func (h *PortalHandler) SendMessage(c *gin.Context) {
	session := middleware.SessionFrom(c)
	var req models.SendMessageRequest
	_ = c.ShouldBind(&req)

	view := h.views.Build(c.Request.Context(), session)
	err := h.messages.Send(c.Request.Context(), view, req.Body)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, tabURL(models.TabMessages, NoticeMessageSent))
	case errors.Is(err, core.ErrEmptyMessage):
		c.Redirect(http.StatusSeeOther, tabURL(models.TabMessages, NoticeMessageEmpty))
	case errors.Is(err, core.ErrMessagingDisabled):
		c.Redirect(http.StatusSeeOther, tabURL(models.TabMessages, NoticeMessagingDisabled))
	default:
		_ = c.Error(err)
		status, _ := mapErrorToStatus(err)
		h.renderDashboard(c, session, models.TabMessages, errorBanner(err.Error()), status)
	}
}

// DownloadDocument handles GET /portal/documents/:documentId/download. Only a
// successfully signed URL leads away from the portal.
func (h *PortalHandler) DownloadDocument(c *gin.Context) {
	session := middleware.SessionFrom(c)
	view := h.views.Build(c.Request.Context(), session)

	signed, err := h.documents.DownloadURL(c.Request.Context(), view, c.Param("documentId"))
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, signed)
	case errors.Is(err, backend.ErrNotConnected):
		c.Redirect(http.StatusSeeOther, tabURL(models.TabDocuments, NoticeDemoStorage))
	case errors.Is(err, core.ErrDocumentNotFound), errors.Is(err, models.ErrMalformedFileRef):
		h.logger.Warn("document not downloadable", zap.String("document_id", c.Param("documentId")), zap.Error(err))
		c.Redirect(http.StatusSeeOther, tabURL(models.TabDocuments, NoticeDocumentUnavailable))
	default:
		_ = c.Error(err)
		status, _ := mapErrorToStatus(err)
		h.renderDashboard(c, session, models.TabDocuments, errorBanner(err.Error()), status)
	}
}

// requireSession sends anonymous visitors of portal pages to the login page.
func requireSession(c *gin.Context) {
	if middleware.SessionFrom(c) == nil {
		c.Redirect(http.StatusSeeOther, portalPath)
		c.Abort()
		return
	}
	c.Next()
}

func tabURL(tab models.Tab, n Notice) string {
	q := url.Values{}
	q.Set("tab", string(tab))
	if n != "" {
		q.Set("notice", string(n))
	}
	return portalPath + "?" + q.Encode()
}
