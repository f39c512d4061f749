package controller

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/app/repository"
	"github.com/ikkim/storefront-account/internal/app/service"
	"github.com/ikkim/storefront-account/internal/app/view"
	"github.com/ikkim/storefront-account/internal/db"
	"github.com/ikkim/storefront-account/internal/middleware"
	"github.com/ikkim/storefront-account/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testCookieName = "test_session"

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]+)"`)

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	manager *session.Manager
	user    *model.User
}

func setupControllerTest(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	manager := session.NewManager(session.NewStore(client, time.Hour), session.Options{
		Secret:     "controller-test-secret",
		CookieName: testCookieName,
		TTL:        time.Hour,
	})

	renderer, err := view.NewRenderer(view.Config{StoreName: "Test Shop", CurrencySymbol: "$"})
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	orderService := service.NewOrderService(orderRepo)
	profileService := service.NewProfileService(userRepo, repository.NewAddressRepository(testDB), orderService)
	wishlistService := service.NewWishlistService(
		repository.NewWishlistRepository(testDB),
		repository.NewCartRepository(testDB),
		repository.NewProductRepository(testDB),
		testDB,
	)

	orderController := NewOrderController(orderService)
	profileController := NewProfileController(profileService)
	wishlistController := NewWishlistController(wishlistService)
	registrationController := NewRegistrationController(service.NewRegistrationService(userRepo), "/login")

	account := middleware.NewAccountMiddleware("/login")

	router := gin.New()
	router.Use(middleware.LoggingMiddleware(), manager.Middleware())
	router.HTMLRender = renderer

	register := router.Group("/register", account.RedirectSignedIn(ProfilePath), middleware.VerifyCSRF())
	register.GET("", registrationController.Show)
	register.POST("", registrationController.Register)

	accountGroup := router.Group("/account", account.RequireAccount(), middleware.VerifyCSRF())
	accountGroup.GET("/profile", profileController.Show)
	accountGroup.POST("/profile", profileController.Update)
	accountGroup.GET("/orders", orderController.History)
	accountGroup.GET("/orders/export", orderController.Export)
	accountGroup.GET("/order-details", orderController.Details)
	accountGroup.GET("/order-confirmation", orderController.Confirmation)
	accountGroup.GET("/wishlist", wishlistController.Show)
	accountGroup.POST("/wishlist", wishlistController.Update)

	return &testEnv{
		db:      testDB,
		router:  router,
		manager: manager,
		user:    createTestUser(t, testDB, "jane@example.com"),
	}
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, sku, price string, stock int) *model.Product {
	product := &model.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createTestOrder(t *testing.T, testDB *gorm.DB, userID uint, status model.OrderStatus, createdAt time.Time) *model.Order {
	order := &model.Order{
		OrderNumber:   fmt.Sprintf("ORD-%d-%d", userID, createdAt.UnixNano()),
		UserID:        userID,
		Status:        status,
		PaymentMethod: "card",
		PaymentStatus: model.PaymentStatusPaid,
		TotalAmount:   decimal.RequireFromString("118.50"),
		ShippingCost:  decimal.RequireFromString("10.00"),
		TaxAmount:     decimal.RequireFromString("8.50"),
		ShippingAddress: model.EncodeAddressSnapshot(model.AddressSnapshot{
			Name:    "Jane Doe",
			Street:  "1 Main St",
			City:    "Toronto",
			Country: "Canada",
		}),
		CreatedAt: createdAt,
		Items: []model.OrderItem{
			{
				ProductName:  "Mug",
				ProductSKU:   "MUG-1",
				ProductPrice: decimal.RequireFromString("50.00"),
				Quantity:     2,
				Subtotal:     decimal.RequireFromString("100.00"),
			},
		},
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

// signIn opens a stored session for user and returns its cookie.
func (e *testEnv) signIn(t *testing.T, user *model.User) *http.Cookie {
	value, err := e.manager.Open(context.Background(), session.Identity{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	})
	require.NoError(t, err)
	return &http.Cookie{Name: testCookieName, Value: value}
}

func (e *testEnv) get(t *testing.T, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) post(t *testing.T, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// csrfToken renders page and pulls the form token out of it.
func (e *testEnv) csrfToken(t *testing.T, page string, cookie *http.Cookie) string {
	w := e.get(t, page, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	match := csrfPattern.FindStringSubmatch(w.Body.String())
	require.Len(t, match, 2, "no csrf token on %s", page)
	return match[1]
}

// sessionCookie returns the session cookie a response issued, if any.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}
