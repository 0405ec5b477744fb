package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/devlingo/devlingo-backend/internal/handlers"
	"github.com/devlingo/devlingo-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware  *middleware.AuthMiddleware
	CourseHandler   *handlers.CourseHandler
	ProgressHandler *handlers.ProgressHandler
	ShopHandler     *handlers.ShopHandler
	AvatarMediaDir  string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.AvatarMediaDir != "" {
		router.Static("/media/avatars", cfg.AvatarMediaDir)
	}

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Courses
	api.GET("/courses", cfg.CourseHandler.ListUserCourses)
	api.POST("/courses/:id/activate", cfg.CourseHandler.ActivateCourse)
	// Learn
	api.GET("/progress", cfg.ProgressHandler.GetUserProgress)
	api.GET("/learn/resume", cfg.ProgressHandler.GetResumePoint)
	api.GET("/lessons/:id", cfg.ProgressHandler.GetLesson)
	api.POST("/challenges/:id/attempts", cfg.ProgressHandler.SubmitAnswer)
	// Leaderboard
	api.GET("/leaderboard", cfg.ProgressHandler.GetLeaderboard)
	// Shop
	api.GET("/shop/balance", cfg.ShopHandler.GetBalance)
	api.POST("/shop/hearts", cfg.ShopHandler.BuyHearts)
	api.POST("/shop/spin", cfg.ShopHandler.SpinWheel)

	return router
}
