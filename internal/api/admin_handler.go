package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/middleware"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

const adminPath = "/portal/admin"

// AdminHandler serves the staff panel in live mode and the in-memory roster in demo mode.
type AdminHandler struct {
	gate   *core.SessionGate
	admin  core.AdminService
	roster *core.DemoRoster
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. roster is only used in demo mode.
func NewAdminHandler(gate *core.SessionGate, as core.AdminService, roster *core.DemoRoster, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{gate: gate, admin: as, roster: roster, logger: logger}
}

func (h *AdminHandler) demo() bool { return h.gate.Mode() == backend.ModeDemo }

// Show handles GET /portal/admin
func (h *AdminHandler) Show(c *gin.Context) {
	banner := parseNotice(c.Query("notice"))
	if h.demo() {
		h.renderRoster(c, http.StatusOK, banner)
		return
	}
	h.renderAdmin(c, http.StatusOK, models.DefaultCreateProjectRequest(), banner)
}

// renderAdmin re-checks the role through ListProjects; a refused session
// gets the blocking notice instead of the form.
func (h *AdminHandler) renderAdmin(c *gin.Context, status int, form models.CreateProjectRequest, banner *Banner) {
	session := middleware.SessionFrom(c)
	projects, err := h.admin.ListProjects(c.Request.Context(), session)
	if err != nil {
		h.renderRefused(c, err)
		return
	}
	data := newPageData(h.gate, session, "Admin – Projects")
	data.Banner = banner
	data.Projects = projects
	data.Form = form
	c.HTML(status, "admin", data)
}

func (h *AdminHandler) renderRefused(c *gin.Context, err error) {
	_ = c.Error(err)
	status, resp := mapErrorToStatus(err)
	banner := parseNotice(string(NoticeNoAdmin))
	if !errors.Is(err, core.ErrAdminForbidden) {
		msg := resp.Error
		if resp.Details != "" {
			msg = resp.Details
		}
		banner = errorBanner(msg)
	}
	data := newPageData(h.gate, middleware.SessionFrom(c), "Admin")
	data.Banner = banner
	c.HTML(status, "notice", data)
}

// CreateProject handles POST /portal/admin/projects
func (h *AdminHandler) CreateProject(c *gin.Context) {
	if h.demo() {
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}
	var form models.CreateProjectRequest
	_ = c.ShouldBind(&form)

	result, err := h.admin.CreateProject(c.Request.Context(), middleware.SessionFrom(c), form)
	if err != nil {
		if errors.Is(err, core.ErrAdminForbidden) {
			h.renderRefused(c, err)
			return
		}
		_ = c.Error(err)
		status, resp := mapErrorToStatus(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			msg = resp.Error
		}
		// a non-nil result means the project exists and only the homeowner step failed
		if result != nil {
			form = models.DefaultCreateProjectRequest()
		}
		h.renderAdmin(c, status, form, errorBanner(msg))
		return
	}

	notice := NoticeProjectCreated
	if result.Outcome == models.MemberInvited {
		notice = NoticeProjectInvited
	}
	c.Redirect(http.StatusSeeOther, withNotice(adminPath, notice))
}

// AddMember handles POST /portal/admin/projects/:projectId/members
func (h *AdminHandler) AddMember(c *gin.Context) {
	if h.demo() {
		c.Redirect(http.StatusSeeOther, adminPath)
		return
	}
	var req models.AddMemberRequest
	_ = c.ShouldBind(&req)

	outcome, err := h.admin.AddMember(c.Request.Context(), middleware.SessionFrom(c), c.Param("projectId"), req.Email)
	if err != nil {
		if errors.Is(err, core.ErrAdminForbidden) {
			h.renderRefused(c, err)
			return
		}
		_ = c.Error(err)
		status, _ := mapErrorToStatus(err)
		h.renderAdmin(c, status, models.DefaultCreateProjectRequest(), errorBanner(err.Error()))
		return
	}

	switch outcome {
	case models.MemberGranted:
		c.Redirect(http.StatusSeeOther, withNotice(adminPath, NoticeAccessGranted))
	case models.MemberInvited:
		c.Redirect(http.StatusSeeOther, withNotice(adminPath, NoticeMemberInvited))
	default:
		c.Redirect(http.StatusSeeOther, adminPath)
	}
}

func (h *AdminHandler) renderRoster(c *gin.Context, status int, banner *Banner) {
	data := newPageData(h.gate, middleware.SessionFrom(c), "Admin Demo – Control Homeowners")
	data.Banner = banner
	for _, hw := range h.roster.List() {
		data.Homeowners = append(data.Homeowners, homeownerRow{Homeowner: hw, InviteLink: h.roster.InviteLink(hw)})
	}
	c.HTML(status, "admin_demo", data)
}

// AddHomeowner handles POST /portal/admin/homeowners (demo only)
func (h *AdminHandler) AddHomeowner(c *gin.Context) {
	if !h.demo() {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Not available in live mode"})
		return
	}
	var req models.DemoHomeownerRequest
	_ = c.ShouldBind(&req)

	if _, err := h.roster.Add(req); err != nil {
		status, _ := mapErrorToStatus(err)
		h.renderRoster(c, status, errorBanner(err.Error()))
		return
	}
	c.Redirect(http.StatusSeeOther, withNotice(adminPath, NoticeHomeownerAdded))
}

// RevokeHomeowner handles POST /portal/admin/homeowners/:homeownerId/revoke (demo only)
func (h *AdminHandler) RevokeHomeowner(c *gin.Context) {
	if !h.demo() {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Not available in live mode"})
		return
	}
	h.roster.Revoke(c.Param("homeownerId"))
	c.Redirect(http.StatusSeeOther, withNotice(adminPath, NoticeHomeownerRevoked))
}
