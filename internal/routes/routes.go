package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "pareto_backend/docs"
	"pareto_backend/internal/auth"
	"pareto_backend/internal/functions"
	"pareto_backend/internal/handlers"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/metrics"
	"pareto_backend/internal/middleware"
)

// Options - what RegisterRoutes mounts besides the API handlers
type Options struct {
	Tokens    *auth.TokenManager
	Functions http.Handler // nil leaves /functions/v1 unmounted
	FilesURL  string       // mount point of the local file handler
	DB        *gorm.DB     // for the health check
}

// RegisterRoutes registers the API under /api/v1 together with the
// operational endpoints.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, opts Options) {
	api := ginRouter.Group("/api/v1")

	session := api.Group("")
	session.Use(middleware.AuthMiddleware(opts.Tokens), middleware.RequirePasswordChanged())

	portal := api.Group("/portal")
	portal.Use(
		middleware.AuthMiddleware(opts.Tokens),
		middleware.RequirePasswordChanged(),
		middleware.RequireRoles(auth.PortalRoles...),
	)

	admin := api.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(opts.Tokens),
		middleware.RequirePasswordChanged(),
		middleware.RequireRoles(auth.StaffRoles...),
	)

	appHandlers.RegisterRoutes(handlers.RouteGroups{
		Public:  api,
		Session: session,
		Portal:  portal,
		Admin:   admin,
	})

	if appHandlers.FileHandler != nil {
		appHandlers.FileHandler.RegisterRoutes(ginRouter, opts.FilesURL)
		logger.Info("Local file routes registered", "prefix", opts.FilesURL)
	}

	if opts.Functions != nil {
		ginRouter.Any(functions.Prefix+"/*fn", gin.WrapH(opts.Functions))
		logger.Info("Functions mounted", "prefix", functions.Prefix)
	}

	ginRouter.GET("/health", healthHandler(opts.DB))
	ginRouter.GET("/metrics", gin.WrapH(metrics.Handler()))
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				logger.CtxWithError(c.Request.Context(), "Health check failed", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
