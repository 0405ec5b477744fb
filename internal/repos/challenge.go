package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/types"
)

type ChallengeRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, challengeID int) (*types.Challenge, error)
}

type challengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	repoLog := baseLog.With("repo", "ChallengeRepo")
	return &challengeRepo{db: db, log: repoLog}
}

func (r *challengeRepo) GetByID(ctx context.Context, tx *gorm.DB, challengeID int) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if challengeID == 0 {
		return nil, nil
	}

	var row types.Challenge
	err := transaction.WithContext(ctx).
		Where("id = ?", challengeID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
