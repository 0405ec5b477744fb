package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/services"
	"github.com/devlingo/devlingo-backend/internal/userlock"
)

type Services struct {
	Avatar      services.AvatarService
	Progress    services.ProgressService
	Course      services.CourseService
	Leaderboard services.LeaderboardService
	Shop        services.ShopService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clientset Clients) (Services, error) {
	log.Info("Wiring services...")

	// One lock registry shared by every service that mutates user_progress.
	locks := userlock.NewRegistry()

	avatarService, err := services.NewAvatarService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	progressService := services.NewProgressService(
		db, log, locks,
		reposet.UserProgress,
		reposet.ChallengeProgress,
		reposet.Course,
		reposet.Lesson,
		reposet.Challenge,
		avatarService,
	)
	courseService := services.NewCourseService(db, log, reposet.Course, reposet.UserProgress, reposet.ChallengeProgress)
	leaderboardService := services.NewLeaderboardService(db, log, reposet.UserProgress, clientset.Redis, cfg.LeaderboardCacheTTL)
	shopService := services.NewShopService(db, log, locks, reposet.UserProgress)

	return Services{
		Avatar:      avatarService,
		Progress:    progressService,
		Course:      courseService,
		Leaderboard: leaderboardService,
		Shop:        shopService,
	}, nil
}
