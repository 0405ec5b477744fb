package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/types"
)

type LessonRepo interface {
	GetWithChallenges(ctx context.Context, tx *gorm.DB, lessonID int) (*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

// GetWithChallenges loads one lesson with its challenges and their options in
// display order.
func (r *lessonRepo) GetWithChallenges(ctx context.Context, tx *gorm.DB, lessonID int) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if lessonID == 0 {
		return nil, nil
	}

	var row types.Lesson
	err := transaction.WithContext(ctx).
		Preload("Challenges", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Preload("Challenges.QuizOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Preload("Challenges.WordOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Where("id = ?", lessonID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
