package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/types"
)

type ChallengeProgressRepo interface {
	GetByUserAndChallenge(ctx context.Context, tx *gorm.DB, userID string, challengeID int) (*types.ChallengeProgress, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.ChallengeProgress, error)
	UpsertCompleted(ctx context.Context, tx *gorm.DB, userID string, challengeID int) (created bool, err error)
}

type challengeProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeProgressRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeProgressRepo {
	repoLog := baseLog.With("repo", "ChallengeProgressRepo")
	return &challengeProgressRepo{db: db, log: repoLog}
}

func (r *challengeProgressRepo) GetByUserAndChallenge(ctx context.Context, tx *gorm.DB, userID string, challengeID int) (*types.ChallengeProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == "" || challengeID == 0 {
		return nil, nil
	}

	var row types.ChallengeProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *challengeProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) ([]*types.ChallengeProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChallengeProgress
	if userID == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpsertCompleted marks (userID, challengeID) complete, inserting the row on
// first completion. The ON CONFLICT clause rides on the unique
// (user_id, challenge_id) index so a racing duplicate collapses into an
// update instead of a second row.
func (r *challengeProgressRepo) UpsertCompleted(ctx context.Context, tx *gorm.DB, userID string, challengeID int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	existing, err := r.GetByUserAndChallenge(ctx, transaction, userID, challengeID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := transaction.WithContext(ctx).
			Model(&types.ChallengeProgress{}).
			Where("id = ?", existing.ID).
			Update("completed", true).Error; err != nil {
			return false, err
		}
		return false, nil
	}

	row := &types.ChallengeProgress{
		UserID:      userID,
		ChallengeID: challengeID,
		Completed:   true,
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"completed": true}),
		}).
		Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
