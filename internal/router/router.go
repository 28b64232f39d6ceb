package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodshare/backend/internal/api"
	"github.com/foodshare/backend/internal/middleware"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth    *api.AuthHandler
	Users   *api.UserHandler
	Catalog *api.CatalogHandler
	Recipes *api.RecipeHandler
}

// SetupRouter configures the application routes.
func SetupRouter(h Handlers, validator middleware.TokenValidator, limiter *middleware.RateLimiter) *gin.Engine {
	api.RegisterValidators()

	router := gin.Default()
	router.Use(middleware.CORS())
	if limiter != nil {
		router.Use(limiter.RateLimitMiddleware(validator))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api")
	h.Auth.RegisterRoutes(v1)
	h.Users.RegisterRoutes(v1, validator)
	h.Catalog.RegisterRoutes(v1, validator)
	h.Recipes.RegisterRoutes(v1, validator)

	return router
}
