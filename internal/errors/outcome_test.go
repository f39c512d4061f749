package errors

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/session"
	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, context: "order", wantCode: ResourceNotFound},
		{name: "postgres duplicate email", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`), context: "register", wantCode: AuthEmailAlreadyExists},
		{name: "mysql duplicate email", err: errors.New("Error 1062: Duplicate entry 'a@b.c' for key 'users.idx_users_email'"), context: "register", wantCode: AuthEmailAlreadyExists},
		{name: "sqlite duplicate wishlist", err: errors.New("UNIQUE constraint failed: wishlist_items.user_id, wishlist_items.product_id"), context: "wishlist", wantCode: ResourceAlreadyExists},
		{name: "foreign key", err: errors.New("FOREIGN KEY constraint failed"), context: "cart", wantCode: ResourceConflict},
		{name: "anything else", err: errors.New("connection reset by peer"), context: "update profile", wantCode: InternalDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotContains(t, info.Message, tt.err.Error())
		})
	}
}

func TestFromError(t *testing.T) {
	assert.Equal(t, Success, FromError(nil, "order").Kind)

	notFound := FromError(gorm.ErrRecordNotFound, "order")
	assert.Equal(t, NotFound, notFound.Kind)
	assert.Equal(t, "Order not found.", notFound.Message)

	failed := FromError(errors.New("pq: relation does not exist"), "order")
	assert.Equal(t, PersistenceFailure, failed.Kind)
	assert.NotContains(t, failed.Message, "relation")
	assert.Error(t, failed.Cause)
}

func TestOutcome_FlashKind(t *testing.T) {
	assert.Equal(t, session.FlashSuccess, OK("done").FlashKind())
	assert.Equal(t, session.FlashWarning, Missing(OrderNotFound, "gone").FlashKind())
	assert.Equal(t, session.FlashWarning, Invalid(ValidationRequired, "bad").FlashKind())
	assert.Equal(t, session.FlashError, Failed(errors.New("boom"), "update").FlashKind())
}

func TestRespond_FlashesAndRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var flashes []session.Flash
	router := gin.New()
	router.POST("/act", func(c *gin.Context) {
		Respond(c, Invalid(ValidationRequired, "First name is required."), "/account/profile", nil)
		flashes = session.From(c).Flashes()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/act", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/account/profile", w.Header().Get("Location"))
	require.Len(t, flashes, 1)
	assert.Equal(t, session.FlashWarning, flashes[0].Kind)
	assert.Equal(t, "First name is required.", flashes[0].Message)
}

func TestRespond_WarnsWhenSessionCannotBeSaved(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger.Initialize(logger.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() {
		logger.Initialize(logger.Config{Level: "info", Format: "console"})
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() {
		client.Close()
	})
	manager := session.NewManager(session.NewStore(client, time.Hour), session.Options{
		Secret:     "outcome-test-secret",
		CookieName: "test_session",
		TTL:        time.Hour,
	})

	router := gin.New()
	router.Use(manager.Middleware())
	router.POST("/account/wishlist", func(c *gin.Context) {
		mr.Close()
		Respond(c, OK("Item removed from your wishlist."), "/account/wishlist", nil)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/account/wishlist", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/account/wishlist", w.Header().Get("Location"))
	assert.Contains(t, buf.String(), "Session not saved, flash dropped")
	assert.Contains(t, buf.String(), `"route":"/account/wishlist"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
