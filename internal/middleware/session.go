package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/app/services"
)

// Context keys set by SessionMiddleware
const (
	SessionIDKey = "sessionID"
	WorkspaceKey = "workspace"
)

// SessionConfig configures the session cookie
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionMiddleware resolves the browser's workspace from its cookie, creating
// a new one when the cookie is missing or stale. The cookie is re-issued on
// every request so it expires after TTL of inactivity, like the session.
func SessionMiddleware(console services.ConsoleService, cfg SessionConfig, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(cfg.CookieName)

		ws, err := console.Open(c.Request.Context(), cookie)
		if err != nil {
			logger.Error().Err(err).Msg("failed to open session")
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		// Reading the session extended its expiry, so the cookie follows
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, ws.ID, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)

		c.Set(SessionIDKey, ws.ID)
		c.Set(WorkspaceKey, ws)
		c.Next()
	}
}

// SessionID returns the session id resolved by SessionMiddleware
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// CurrentWorkspace returns the workspace loaded when the request started
func CurrentWorkspace(c *gin.Context) *models.Workspace {
	if v, ok := c.Get(WorkspaceKey); ok {
		if ws, ok := v.(*models.Workspace); ok {
			return ws
		}
	}
	return nil
}
