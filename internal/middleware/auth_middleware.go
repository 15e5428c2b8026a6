package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/pkg/utils"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "shift_session"

// Context keys set by Session for downstream handlers.
const (
	UserIDKey   = "userID"
	UsernameKey = "username"
	UserRoleKey = "userRole"
)

// CookieOptions controls how session and anti-forgery cookies are written.
type CookieOptions struct {
	Secure bool
}

// Session resolves the caller from the session cookie or a Bearer token.
// Anonymous requests pass through with no user in the context. A cookie
// session past half its lifetime is reissued.
func Session(tokens *utils.TokenManager, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, fromCookie := sessionToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			utils.LogDebug("Ignoring invalid session token", map[string]interface{}{"error": err.Error()})
			if fromCookie {
				ClearSessionCookie(c, opts)
			}
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(UserRoleKey, claims.Role)

		if fromCookie && tokens.NeedsRenewal(claims) {
			renewed, _, err := tokens.Generate(claims.UserID, claims.Username, claims.Role)
			if err != nil {
				utils.LogError(err, "Session: failed to renew session token")
			} else {
				SetSessionCookie(c, renewed, tokens.TTL(), opts)
			}
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) (token string, fromCookie bool) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, true
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1]), false
	}
	return "", false
}

// SetSessionCookie writes token as an HttpOnly, SameSite=Lax cookie.
func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", opts.Secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", opts.Secure, true)
}

// RequireAuth rejects requests without a resolved user with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", "No valid session"))
			return
		}
		c.Next()
	}
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks if the user role (from the session claims) is one of the allowed roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr := c.GetString(UserRoleKey)
		if roleStr == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found in session.", "RequireAuth must run first"))
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				c.Next()
				return
			}
		}

		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource. Required roles: "+strings.Join(allowedRoles, ", "), ""))
	}
}

// CurrentUserID returns the resolved user id, or "" for anonymous callers.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
