package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/types"
)

type CourseRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, courseID int) (*types.Course, error)
	GetWithTree(ctx context.Context, tx *gorm.DB, courseID int) (*types.Course, error)
	ListVisibleTo(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, courseID int) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if courseID == 0 {
		return nil, nil
	}

	var row types.Course
	err := transaction.WithContext(ctx).
		Where("id = ?", courseID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetWithTree loads the full content hierarchy in display order. Progress
// rows are fetched separately per user; the tree itself is user-independent.
func (r *courseRepo) GetWithTree(ctx context.Context, tx *gorm.DB, courseID int) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if courseID == 0 {
		return nil, nil
	}

	var row types.Course
	err := transaction.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Preload("Units.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Preload("Units.Lessons.Challenges", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Where("id = ?", courseID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListVisibleTo returns every GLOBAL course plus the CUSTOM courses the user
// authored, trees included.
func (r *courseRepo) ListVisibleTo(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Preload("Units.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Preload("Units.Lessons.Challenges", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" ASC`)
		}).
		Where("type = ? OR maker_id = ?", types.CourseTypeGlobal, userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
