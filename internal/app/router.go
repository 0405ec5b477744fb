package app

import (
	"github.com/gin-gonic/gin"

	"github.com/devlingo/devlingo-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:  middlewareset.Auth,
		CourseHandler:   handlerset.Course,
		ProgressHandler: handlerset.Progress,
		ShopHandler:     handlerset.Shop,
		AvatarMediaDir:  cfg.AvatarMediaDir,
	})
}
