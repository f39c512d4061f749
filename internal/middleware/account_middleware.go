package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/errors"
	"github.com/ikkim/storefront-account/internal/session"
)

// Context keys for user information
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	accountKey   = "account"
)

const csrfField = "csrf_token"

type AccountMiddleware struct {
	loginPath string
}

func NewAccountMiddleware(loginPath string) *AccountMiddleware {
	return &AccountMiddleware{
		loginPath: loginPath,
	}
}

// RequireAccount lets only signed-in visitors through. Anyone else is sent
// to the login page with the original URL as the redirect target, and the
// handler chain stops there.
func (m *AccountMiddleware) RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		identity := session.IdentityFrom(c)
		if !identity.Authenticated() {
			log.Info("Anonymous visitor redirected to login", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			if err := session.Commit(c); err != nil {
				log.Warn("Session not saved before login redirect", map[string]interface{}{
					"route": c.FullPath(),
					"error": err.Error(),
				})
			}
			c.Redirect(http.StatusFound, m.LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(UserIDKey, identity.ID)
		c.Set(UserEmailKey, identity.Email)
		c.Set(accountKey, identity)

		log.Debug("Account session accepted", map[string]interface{}{
			"user_id": identity.ID,
		})

		c.Next()
	}
}

// RedirectSignedIn sends visitors who already have an account session to
// the given path. Used on pages that only make sense when signed out.
func (m *AccountMiddleware) RedirectSignedIn(to string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.IdentityFrom(c).Authenticated() {
			c.Redirect(http.StatusFound, to)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AccountMiddleware) LoginURL(returnTo string) string {
	if returnTo == "" {
		return m.loginPath
	}
	return m.loginPath + "?redirect=" + url.QueryEscape(returnTo)
}

// VerifyCSRF rejects state-changing requests whose csrf_token form field
// does not match the session token. The visitor is sent back to the page
// with a flash and nothing downstream runs.
func VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		submitted := c.PostForm(csrfField)
		if submitted == "" {
			submitted = c.GetHeader("X-CSRF-Token")
		}

		if !session.From(c).ValidCSRF(submitted) {
			errors.Respond(c,
				errors.Invalid(errors.AuthCSRFInvalid, "Your form has expired. Please try again."),
				c.Request.URL.Path,
				map[string]interface{}{"path": c.Request.URL.Path},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetAccount returns the identity accepted by RequireAccount.
func GetAccount(c *gin.Context) (session.Identity, bool) {
	v, exists := c.Get(accountKey)
	if !exists {
		return session.Identity{}, false
	}
	identity, ok := v.(session.Identity)
	return identity, ok
}
