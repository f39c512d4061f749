package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/ikkim/storefront-account/pkg/util"
)

const (
	sessionContextKey  = "session"
	managerContextKey  = "session_manager"
	identityContextKey = "identity"
)

type Options struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds the Redis store to the signed session cookie.
type Manager struct {
	store *Store
	opts  Options
}

func NewManager(store *Store, opts Options) *Manager {
	return &Manager{store: store, opts: opts}
}

// Middleware loads the request's session, normalizes its identity once and
// places both on the gin context. A missing, forged or expired cookie
// yields a fresh anonymous session that is only persisted if written to.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)

		c.Set(managerContextKey, m)
		c.Set(sessionContextKey, sess)
		c.Set(identityContextKey, sess.Identity())

		c.Next()
	}
}

func (m *Manager) load(c *gin.Context) *Session {
	cookie, err := c.Cookie(m.opts.CookieName)
	if err != nil || cookie == "" {
		return newSession(uuid.NewString())
	}

	claims, err := util.ValidateSessionToken(cookie, m.opts.Secret)
	if err != nil {
		logger.Debug("Ignoring invalid session cookie", map[string]interface{}{
			"error": err.Error(),
		})
		return newSession(uuid.NewString())
	}

	sess, err := m.store.Load(c.Request.Context(), claims.SessionID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logger.Warn("Session store unavailable, continuing anonymously", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return newSession(uuid.NewString())
	}
	return sess
}

// Commit persists pending session changes and issues the cookie for a new
// session. It must run before the response is written.
func (m *Manager) Commit(c *gin.Context, sess *Session) error {
	ctx := c.Request.Context()

	if !sess.dirty {
		if sess.isNew {
			return nil
		}
		return m.store.Touch(ctx, sess.ID)
	}

	wasNew := sess.isNew
	if err := m.store.Save(ctx, sess); err != nil {
		return err
	}
	if wasNew {
		return m.writeCookie(c, sess.ID)
	}
	return nil
}

func (m *Manager) writeCookie(c *gin.Context, id string) error {
	token, err := m.CookieValue(id)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, token, int(m.opts.TTL.Seconds()), "/", "", m.opts.Secure, true)
	return nil
}

// Open creates and saves a signed-in session outside a request and returns
// the cookie value that addresses it.
func (m *Manager) Open(ctx context.Context, identity Identity) (string, error) {
	sess := newSession(uuid.NewString())
	sess.SetIdentity(identity)
	if err := m.store.Save(ctx, sess); err != nil {
		return "", err
	}
	return m.CookieValue(sess.ID)
}

// CookieValue signs the cookie value addressing an existing session id.
func (m *Manager) CookieValue(sessionID string) (string, error) {
	return util.GenerateSessionToken(sessionID, m.opts.Secret, m.opts.TTL)
}

func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// From returns the request's session. Without the middleware it returns a
// throwaway anonymous session.
func From(c *gin.Context) *Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	sess := newSession(uuid.NewString())
	c.Set(sessionContextKey, sess)
	return sess
}

// IdentityFrom returns the identity normalized by the middleware.
func IdentityFrom(c *gin.Context) Identity {
	if v, ok := c.Get(identityContextKey); ok {
		if identity, ok := v.(Identity); ok {
			return identity
		}
	}
	return Identity{}
}

// Commit persists the request's session through the manager that loaded it.
func Commit(c *gin.Context) error {
	v, ok := c.Get(managerContextKey)
	if !ok {
		return nil
	}
	m, ok := v.(*Manager)
	if !ok {
		return nil
	}
	if err := m.Commit(c, From(c)); err != nil {
		logger.Error("Failed to commit session", err, nil)
		return err
	}
	return nil
}
