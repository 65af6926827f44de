package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arcticroofing/arctic-portal/internal/backend"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/models"
)

const (
	// SessionCookieName holds the provider's opaque session token.
	SessionCookieName = "arctic_session"
	sessionContextKey = "session"
)

// ErrorResponse mirrors the one in internal/api to avoid an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SessionMiddleware resolves the session cookie on every request.
type SessionMiddleware struct {
	gate *core.SessionGate
}

// NewSessionMiddleware creates a new SessionMiddleware. It panics on a nil gate.
func NewSessionMiddleware(gate *core.SessionGate) *SessionMiddleware {
	if gate == nil {
		panic("SessionMiddleware requires a SessionGate")
	}
	return &SessionMiddleware{gate: gate}
}

// LoadSession puts the visitor's session, if any, into the gin context. It never aborts.
func (m *SessionMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err == nil && token != "" {
			if s := m.gate.Current(c.Request.Context(), token); s != nil {
				c.Set(sessionContextKey, s)
			}
		}
		c.Next()
	}
}

// RequireSession answers 401 for anonymous JSON requests on a live backend.
// Demo backends serve their sample data to anyone.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.gate.Mode() == backend.ModeLive && SessionFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Not signed in"})
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session LoadSession stored, or nil.
func SessionFrom(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*models.Session)
	return s
}

// SetSessionCookie stores token as an HttpOnly cookie for ttl.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}
