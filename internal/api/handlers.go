package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Services bundles everything the handlers need.
type Services struct {
	Auth         service.IAuthService
	Catalog      service.ICatalogService
	Recipes      service.IRecipeService
	Relations    service.IRelationService
	ShoppingList service.IShoppingListService
	Users        service.IUserService
}

// RegisterRoutes mounts the health checks and the /api tree. limiter may be
// nil when Redis is not configured.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, rdb *redis.Client, svc Services, limiter *middleware.RateLimiter) {
	health := HealthCheck(db, rdb)
	router.GET("/health", health)

	api := router.Group("/api")
	api.GET("/health", health)
	api.Use(middleware.OptionalAuth(svc.Auth, svc.Auth))
	if limiter != nil {
		api.Use(limiter.RateLimitMiddleware())
	}

	NewCatalogHandler(svc.Catalog).RegisterRoutes(api)
	NewRecipeHandler(svc.Recipes, svc.Relations, svc.ShoppingList).RegisterRoutes(api)
	NewUserHandler(svc.Users, svc.Relations).RegisterRoutes(api)
}

// HealthCheck reports database and Redis reachability. Redis is optional.
func HealthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "ok"}
		if err := database.HealthCheck(ctx, db); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		}
		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				status = http.StatusServiceUnavailable
				checks["redis"] = err.Error()
			}
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
