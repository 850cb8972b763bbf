package routes

import (
	"net/http"

	"artnuggets/internal/auth"
	"artnuggets/internal/blocklist"
	"artnuggets/internal/handlers"
	"artnuggets/internal/middleware"
	"artnuggets/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *auth.TokenManager,
	bl blocklist.Blocklist,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")

	// Публичные маршруты: аутентификация и справочники для онбординга
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.TaxonomyHandler.RegisterRoutes(api)
	}

	// Маршруты, требующие access-токен
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens, bl))
	{
		appHandlers.AuthHandler.RegisterProtectedRoutes(protected)
		appHandlers.ProfileHandler.RegisterRoutes(protected)
		appHandlers.CourseHandler.RegisterRoutes(protected)
		appHandlers.ChatHandler.RegisterRoutes(protected)
	}

	// Админские маршруты
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(tokens, bl))
	admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		appHandlers.AdminHandler.RegisterRoutes(admin)
	}
}
