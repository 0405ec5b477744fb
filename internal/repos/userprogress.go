package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/types"
)

type UserProgressRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProgress, error)
	UpsertActiveCourse(ctx context.Context, tx *gorm.DB, userID string, courseID int, userName, userImageSrc string) (*types.UserProgress, error)
	AdjustHearts(ctx context.Context, tx *gorm.DB, userID string, delta, min, max int) (*types.UserProgress, error)
	AdjustPoints(ctx context.Context, tx *gorm.DB, userID string, delta int) (*types.UserProgress, error)
	AdjustCoins(ctx context.Context, tx *gorm.DB, userID string, delta int) (*types.UserProgress, error)
	ListByPointsDesc(ctx context.Context, tx *gorm.DB) ([]*types.UserProgress, error)
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (r *userProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == "" {
		return nil, nil
	}

	var row types.UserProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertActiveCourse switches the active course when a row exists, otherwise
// inserts a fresh row with default balances and the supplied profile. Safe to
// call repeatedly.
func (r *userProgressRepo) UpsertActiveCourse(ctx context.Context, tx *gorm.DB, userID string, courseID int, userName, userImageSrc string) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByUserID(ctx, transaction, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := transaction.WithContext(ctx).
			Model(&types.UserProgress{}).
			Where("user_id = ?", userID).
			Update("active_course_id", courseID).Error; err != nil {
			return nil, err
		}
		existing.ActiveCourseID = &courseID
		return existing, nil
	}

	row := &types.UserProgress{
		UserID:         userID,
		UserName:       userName,
		UserImageSrc:   userImageSrc,
		ActiveCourseID: &courseID,
		Hearts:         types.DefaultHearts,
		Points:         0,
		Coins:          0,
	}
	if row.UserName == "" {
		row.UserName = "User"
	}
	if row.UserImageSrc == "" {
		row.UserImageSrc = "/mascot.svg"
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// AdjustHearts clamps current+delta into [min, max] and persists the result.
// Callers are expected to hold the per-user lock.
func (r *userProgressRepo) AdjustHearts(ctx context.Context, tx *gorm.DB, userID string, delta, min, max int) (*types.UserProgress, error) {
	return r.adjust(ctx, tx, userID, func(row *types.UserProgress) {
		next := row.Hearts + delta
		if next < min {
			next = min
		}
		if next > max {
			next = max
		}
		row.Hearts = next
	}, "hearts")
}

func (r *userProgressRepo) AdjustPoints(ctx context.Context, tx *gorm.DB, userID string, delta int) (*types.UserProgress, error) {
	return r.adjust(ctx, tx, userID, func(row *types.UserProgress) {
		row.Points += delta
	}, "points")
}

func (r *userProgressRepo) AdjustCoins(ctx context.Context, tx *gorm.DB, userID string, delta int) (*types.UserProgress, error) {
	return r.adjust(ctx, tx, userID, func(row *types.UserProgress) {
		row.Coins += delta
	}, "coins")
}

func (r *userProgressRepo) adjust(ctx context.Context, tx *gorm.DB, userID string, mutate func(*types.UserProgress), column string) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	row, err := r.GetByUserID(ctx, transaction, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, gorm.ErrRecordNotFound
	}

	mutate(row)
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"hearts": row.Hearts,
			"points": row.Points,
			"coins":  row.Coins,
		}).Error; err != nil {
		r.log.Error("Failed to adjust user progress", "column", column, "user_id", userID, "error", err)
		return nil, err
	}
	return row, nil
}

func (r *userProgressRepo) ListByPointsDesc(ctx context.Context, tx *gorm.DB) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Order("points DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
