package server

import (
	"time"

	"handyhub-session-svc/src/internal/dependency"
	"handyhub-session-svc/src/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)

	setupHealthEndpoint(deps)
	setupPublicRoutes(router, deps)
	setupSessionRoutes(router, deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	cfg := deps.Config

	router.GET("/health", func(c *gin.Context) {
		log.Debug("Health check endpoint requested")

		mongoStatus := "disabled"
		if deps.Mongodb != nil {
			mongoStatus = "ok"
			if err := deps.Mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
				mongoStatus = "error: " + err.Error()
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "ok"
			if err := deps.Redis.Client.Ping(c.Request.Context()).Err(); err != nil {
				redisStatus = "error: " + err.Error()
			}
		}

		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"storage":   cfg.Session.Storage,
			"mongodb":   mongoStatus,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	})

	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}
}

func setupPublicRoutes(router *gin.Engine, deps *dependency.Manager) {
	// API status endpoint
	router.GET("/api/v1/status", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"api_version": "v1",
			"status":      "operational",
			"service":     deps.Config.App.Name,
		})
	})
}

func setupSessionRoutes(router *gin.Engine, deps *dependency.Manager) {
	handler := deps.SessionHandler

	api := router.Group("/api/v1/session")
	{
		api.GET("",
			setRouteName("getSession"),
			handler.GetSession)

		api.GET("/token",
			setRouteName("getToken"),
			middleware.RequireLoggedIn(deps.SessionManager),
			handler.GetToken)

		api.POST("/login",
			setRouteName("login"),
			middleware.CaptureBearer(),
			handler.Login)

		api.POST("/logout",
			setRouteName("logout"),
			handler.Logout)
	}
}

func setRouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("route_name", name)
		c.Next()
	}
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}
