package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/ikkim/storefront-account/config"
	"github.com/ikkim/storefront-account/internal/app/controller"
	"github.com/ikkim/storefront-account/internal/middleware"
	"github.com/ikkim/storefront-account/internal/session"
)

type Router struct {
	orderController        *controller.OrderController
	profileController      *controller.ProfileController
	wishlistController     *controller.WishlistController
	registrationController *controller.RegistrationController
	healthController       *controller.HealthController
	accountMiddleware      *middleware.AccountMiddleware
	sessions               *session.Manager
	renderer               render.HTMLRender
	config                 *config.Config
}

func NewRouter(
	orderController *controller.OrderController,
	profileController *controller.ProfileController,
	wishlistController *controller.WishlistController,
	registrationController *controller.RegistrationController,
	healthController *controller.HealthController,
	accountMiddleware *middleware.AccountMiddleware,
	sessions *session.Manager,
	renderer render.HTMLRender,
	cfg *config.Config,
) *Router {
	return &Router{
		orderController:        orderController,
		profileController:      profileController,
		wishlistController:     wishlistController,
		registrationController: registrationController,
		healthController:       healthController,
		accountMiddleware:      accountMiddleware,
		sessions:               sessions,
		renderer:               renderer,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.HTMLRender = r.renderer

	// Probes run without a session.
	router.GET("/health", r.healthController.Check)

	pages := router.Group("/")
	pages.Use(r.sessions.Middleware())
	{
		register := pages.Group("/register")
		register.Use(r.accountMiddleware.RedirectSignedIn(controller.ProfilePath), middleware.VerifyCSRF())
		{
			register.GET("", r.registrationController.Show)
			register.POST("", r.registrationController.Register)
		}

		account := pages.Group("/account")
		account.Use(r.accountMiddleware.RequireAccount(), middleware.VerifyCSRF())
		{
			account.GET("", func(c *gin.Context) {
				c.Redirect(http.StatusFound, controller.ProfilePath)
			})

			account.GET("/profile", r.profileController.Show)
			account.POST("/profile", r.profileController.Update)

			account.GET("/orders", r.orderController.History)
			account.GET("/orders/export", r.orderController.Export)
			account.GET("/order-details", r.orderController.Details)
			account.GET("/order-confirmation", r.orderController.Confirmation)

			account.GET("/wishlist", r.wishlistController.Show)
			account.POST("/wishlist", r.wishlistController.Update)
		}
	}

	return router
}
