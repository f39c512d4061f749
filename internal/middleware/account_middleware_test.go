package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "test_session"

func setupMiddlewareTest(t *testing.T) (*gin.Engine, *session.Manager, *AccountMiddleware) {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})

	manager := session.NewManager(session.NewStore(client, time.Hour), session.Options{
		Secret:     "middleware-test-secret",
		CookieName: testCookieName,
		TTL:        time.Hour,
	})

	router := gin.New()
	router.Use(LoggingMiddleware(), manager.Middleware())
	return router, manager, NewAccountMiddleware("/login")
}

func openTestSession(t *testing.T, manager *session.Manager, identity session.Identity) *http.Cookie {
	value, err := manager.Open(context.Background(), identity)
	require.NoError(t, err)
	return &http.Cookie{Name: testCookieName, Value: value}
}

func TestRequireAccount_Anonymous_RedirectsToLogin(t *testing.T) {
	router, _, account := setupMiddlewareTest(t)

	handlerRan := false
	router.GET("/account/orders", account.RequireAccount(), func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/account/orders?status=shipped", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.False(t, handlerRan)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", location.Path)
	assert.Equal(t, "/account/orders?status=shipped", location.Query().Get("redirect"))
}

func TestRequireAccount_SignedIn_SetsContext(t *testing.T) {
	router, manager, account := setupMiddlewareTest(t)
	cookie := openTestSession(t, manager, session.Identity{ID: 42, FirstName: "Jane", Email: "jane@example.com"})

	router.GET("/account/profile", account.RequireAccount(), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		identity, ok := GetAccount(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": identity.Email})
	})

	req := httptest.NewRequest(http.MethodGet, "/account/profile", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 42, "email": "jane@example.com"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRedirectSignedIn(t *testing.T) {
	router, manager, account := setupMiddlewareTest(t)
	cookie := openTestSession(t, manager, session.Identity{ID: 1})

	router.GET("/account/register", account.RedirectSignedIn("/account/profile"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/account/register", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/account/profile", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/account/register", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyCSRF(t *testing.T) {
	router, manager, _ := setupMiddlewareTest(t)
	cookie := openTestSession(t, manager, session.Identity{ID: 5})

	var token string
	router.GET("/form", func(c *gin.Context) {
		token = session.From(c).CSRFToken()
		require.NoError(t, session.Commit(c))
		c.Status(http.StatusOK)
	})
	mutated := 0
	router.POST("/form", VerifyCSRF(), func(c *gin.Context) {
		mutated++
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(httptest.NewRecorder(), req)
	require.NotEmpty(t, token)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "missing token", token: "", wantStatus: http.StatusSeeOther},
		{name: "forged token", token: "forged", wantStatus: http.StatusSeeOther},
		{name: "valid token", token: token, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{"csrf_token": {tt.token}}
			req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusSeeOther {
				assert.Equal(t, "/form", w.Header().Get("Location"))
			}
		})
	}
	assert.Equal(t, 1, mutated)
}
