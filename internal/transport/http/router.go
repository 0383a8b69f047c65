package handlers

import (
	"time"

	"glassbird/internal/infrastructure/security"
	"glassbird/internal/middleware"
	"glassbird/internal/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string
	SecureCookies  bool
}

func NewRouter(
	cfg RouterConfig,
	authHandler *AuthHandler,
	courseHandler *CourseHandler,
	limiter *middleware.RateLimiter,
	tokens *security.TokenManager,
	log *logger.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	config := cors.DefaultConfig()
	config.AllowOrigins = cfg.AllowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	api := r.Group("/api")
	api.GET("/health", Health)
	api.Use(middleware.Identity(cfg.SecureCookies))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.GET("/confirm", authHandler.Confirm)
			auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), authHandler.Login)
			auth.POST("/signup", limiter.Limit("signup", 5, 1*time.Minute), authHandler.Signup)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
			auth.PATCH("/me", authHandler.UpdateMe)
		}
		courses := api.Group("/courses")
		{
			courses.GET("", courseHandler.List)
			courses.GET("/:courseId/outline", courseHandler.Outline)
			courses.POST("/:courseId/enroll", middleware.AuthMiddleware(tokens), courseHandler.Enroll)
			courses.GET("/:courseId/navigation", courseHandler.Navigation)
			courses.POST("/:courseId/navigation/lesson", courseHandler.SelectLesson)
			courses.POST("/:courseId/navigation/sublesson", courseHandler.SelectSubLesson)
			courses.GET("/:courseId/progress", courseHandler.Progress)
		}
	}

	return r
}
