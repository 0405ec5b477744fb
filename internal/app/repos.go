package app

import (
	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/repos"
)

type Repos struct {
	Course            repos.CourseRepo
	Lesson            repos.LessonRepo
	Challenge         repos.ChallengeRepo
	ChallengeProgress repos.ChallengeProgressRepo
	UserProgress      repos.UserProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:            repos.NewCourseRepo(db, log),
		Lesson:            repos.NewLessonRepo(db, log),
		Challenge:         repos.NewChallengeRepo(db, log),
		ChallengeProgress: repos.NewChallengeProgressRepo(db, log),
		UserProgress:      repos.NewUserProgressRepo(db, log),
	}
}
