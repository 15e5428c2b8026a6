package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/pkg/utils"
)

const (
	AntiforgeryCookieName = "XSRF-TOKEN"
	AntiforgeryHeaderName = "X-XSRF-TOKEN"
	AntiforgeryFormField  = "__RequestVerificationToken"

	// AntiforgeryTokenKey holds the request's token in the gin context.
	AntiforgeryTokenKey = "antiforgeryToken"
)

// AntiForgery implements double-submit tokens. Every response carries an
// XSRF-TOKEN cookie; unsafe methods must echo its value in the X-XSRF-TOKEN
// header or the __RequestVerificationToken form field.
func AntiForgery(opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AntiforgeryCookieName)
		if err != nil || token == "" {
			token, err = newAntiforgeryToken()
			if err != nil {
				utils.RespondInternalError(c, err, "Failed to issue anti-forgery token.")
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			// Readable by scripts so single page clients can echo it.
			c.SetCookie(AntiforgeryCookieName, token, 0, "/", "", opts.Secure, false)
			if isUnsafeMethod(c.Request.Method) {
				rejectAntiforgery(c, "missing anti-forgery cookie")
				return
			}
		}
		c.Set(AntiforgeryTokenKey, token)

		if isUnsafeMethod(c.Request.Method) {
			submitted := c.GetHeader(AntiforgeryHeaderName)
			if submitted == "" {
				submitted = c.PostForm(AntiforgeryFormField)
			}
			if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				rejectAntiforgery(c, "anti-forgery token mismatch")
				return
			}
		}
		c.Next()
	}
}

func rejectAntiforgery(c *gin.Context, details string) {
	utils.LogWarn(nil, "AntiForgery: request rejected", map[string]interface{}{"path": c.Request.URL.Path, "reason": details})
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeAntiforgeryFailed, "The anti-forgery token is missing or invalid.", details))
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	}
	return true
}

func newAntiforgeryToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
