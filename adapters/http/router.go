package http

import (
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type Handlers struct {
	Auth      *AuthHandler
	Public    *PublicHandler
	Portfolio *PortfolioHandler
	Export    *ExportHandler
}

func NewRouter(serviceName string, h Handlers, jwtSvc *auth.JWTService, metrics *Metrics, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(TracingMiddleware(serviceName))
	router.Use(MetricsMiddleware(metrics))
	router.Use(ErrorMiddleware(log))

	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	{
		api.GET("/health", Health)
		api.POST("/auth/signup", h.Auth.SignUp)
		api.POST("/auth/login", h.Auth.Login)

		api.GET("/view", OptionalAuthMiddleware(jwtSvc), h.Public.ResolveView)
		api.GET("/public/profiles/:id", h.Public.GetProfile)

		me := api.Group("/me")
		me.Use(AuthMiddleware(jwtSvc))
		{
			me.GET("/dashboard", h.Portfolio.GetDashboard)
			me.PUT("/profile", h.Portfolio.UpdateProfile)
			me.GET("/link", h.Portfolio.GetPublicLink)

			me.GET("/items/:category", h.Portfolio.ListItems)
			me.POST("/items/:category", h.Portfolio.CreateItem)
			me.PUT("/items/:category/:id", h.Portfolio.UpdateItem)
			me.DELETE("/items/:category/:id", h.Portfolio.DeleteItem)

			me.POST("/export", h.Export.Export)
		}
	}
	return router
}
