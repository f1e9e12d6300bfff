package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route onto a fresh engine.
func NewRouter(h *Handlers, store sessions.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger()))
	r.Use(sessions.Sessions("sitecms", store))

	// --- Auth Routes ---
	r.GET("/login/github", GithubLogin)
	r.GET("/auth/callback", AuthCallback)
	r.GET("/logout", Logout)

	// --- Content ---
	r.GET("/__content__/*path", h.PreviewContent)
	r.GET("/admin/collections", h.ListCollections)

	api := r.Group("/api")
	{
		api.GET("/config", h.GetConfig)
		api.GET("/content/:collection/:slug", h.GetContent)
		api.POST("/generate", AuthRequired, h.HandleGenerate)
	}
	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request served",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}
