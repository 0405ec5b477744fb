package app

import (
	"github.com/devlingo/devlingo-backend/internal/handlers"
	"github.com/devlingo/devlingo-backend/internal/logger"
)

type Handlers struct {
	Course   *handlers.CourseHandler
	Progress *handlers.ProgressHandler
	Shop     *handlers.ShopHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Course:   handlers.NewCourseHandler(log, serviceset.Course, serviceset.Progress),
		Progress: handlers.NewProgressHandler(log, serviceset.Progress, serviceset.Leaderboard),
		Shop:     handlers.NewShopHandler(log, serviceset.Shop),
	}
}
