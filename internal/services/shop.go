package services

import (
	"context"
	"errors"
	"math/rand"

	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/repos"
	"github.com/devlingo/devlingo-backend/internal/types"
	"github.com/devlingo/devlingo-backend/internal/userlock"
)

var ErrInsufficientCoins = errors.New("not enough coins")

// spinCost is the flat price of one wheel spin.
const spinCost = 10

type Balance struct {
	Coins  int `json:"coins"`
	Hearts int `json:"hearts"`
}

type PrizeType string

const (
	PrizeTypeCoins  PrizeType = "coins"
	PrizeTypeHearts PrizeType = "hearts"
	PrizeTypeAvatar PrizeType = "avatar"
	PrizeTypeSkip   PrizeType = "skip"
	PrizeTypeBoost  PrizeType = "boost"
)

type Prize struct {
	Name  string    `json:"name"`
	Type  PrizeType `json:"type"`
	Value int       `json:"value"`
}

// wheelPrizes matches the shop wheel: only coin and heart prizes touch the
// progress row, the cosmetic ones are resolved by the caller.
var wheelPrizes = []Prize{
	{Name: "10 Coins", Type: PrizeTypeCoins, Value: 10},
	{Name: "1 Heart", Type: PrizeTypeHearts, Value: 1},
	{Name: "2 Hearts", Type: PrizeTypeHearts, Value: 2},
	{Name: "Premium Avatar", Type: PrizeTypeAvatar, Value: 0},
	{Name: "Lesson Skip", Type: PrizeTypeSkip, Value: 1},
	{Name: "XP Boost", Type: PrizeTypeBoost, Value: 1},
}

type SpinResult struct {
	Prize   Prize   `json:"prize"`
	Balance Balance `json:"balance"`
}

// ShopService owns the coin/heart balance mutations. It shares the per-user
// lock discipline with ProgressService because both mutate the same
// user_progress row.
type ShopService interface {
	GetBalance(ctx context.Context, userID string) (*Balance, error)
	SpendCoins(ctx context.Context, userID string, amount int) (*Balance, error)
	GrantHearts(ctx context.Context, userID string, amount int) (*Balance, error)
	BuyHearts(ctx context.Context, userID string, amount, price int) (*Balance, error)
	SpinWheel(ctx context.Context, userID string) (*SpinResult, error)
}

type shopService struct {
	db           *gorm.DB
	log          *logger.Logger
	locks        *userlock.Registry
	userProgress repos.UserProgressRepo

	// pick selects a wheel slot; injectable for deterministic tests.
	pick func(n int) int
}

func NewShopService(db *gorm.DB, baseLog *logger.Logger, locks *userlock.Registry, userProgressRepo repos.UserProgressRepo) ShopService {
	return &shopService{
		db:           db,
		log:          baseLog.With("service", "ShopService"),
		locks:        locks,
		userProgress: userProgressRepo,
		pick:         rand.Intn,
	}
}

func (s *shopService) GetBalance(ctx context.Context, userID string) (*Balance, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	row, err := s.userProgress.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrUserProgressNotFound
	}
	return &Balance{Coins: row.Coins, Hearts: row.Hearts}, nil
}

func (s *shopService) SpendCoins(ctx context.Context, userID string, amount int) (*Balance, error) {
	return s.mutate(ctx, userID, func(tx *gorm.DB, row *types.UserProgress) (*types.UserProgress, error) {
		if row.Coins < amount {
			return nil, ErrInsufficientCoins
		}
		return s.userProgress.AdjustCoins(ctx, tx, userID, -amount)
	})
}

// GrantHearts adds hearts without a ceiling: purchased hearts intentionally
// bypass both reward caps, as the shop always has.
func (s *shopService) GrantHearts(ctx context.Context, userID string, amount int) (*Balance, error) {
	return s.mutate(ctx, userID, func(tx *gorm.DB, row *types.UserProgress) (*types.UserProgress, error) {
		return s.userProgress.AdjustHearts(ctx, tx, userID, amount, 0, row.Hearts+amount)
	})
}

func (s *shopService) BuyHearts(ctx context.Context, userID string, amount, price int) (*Balance, error) {
	return s.mutate(ctx, userID, func(tx *gorm.DB, row *types.UserProgress) (*types.UserProgress, error) {
		if row.Coins < price {
			return nil, ErrInsufficientCoins
		}
		if _, err := s.userProgress.AdjustCoins(ctx, tx, userID, -price); err != nil {
			return nil, err
		}
		return s.userProgress.AdjustHearts(ctx, tx, userID, amount, 0, row.Hearts+amount)
	})
}

func (s *shopService) SpinWheel(ctx context.Context, userID string) (*SpinResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var result *SpinResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.userProgress.GetByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrUserProgressNotFound
		}
		if row.Coins < spinCost {
			return ErrInsufficientCoins
		}

		updated, err := s.userProgress.AdjustCoins(ctx, tx, userID, -spinCost)
		if err != nil {
			return err
		}

		prize := wheelPrizes[s.pick(len(wheelPrizes))]
		switch prize.Type {
		case PrizeTypeCoins:
			updated, err = s.userProgress.AdjustCoins(ctx, tx, userID, prize.Value)
		case PrizeTypeHearts:
			updated, err = s.userProgress.AdjustHearts(ctx, tx, userID, prize.Value, 0, updated.Hearts+prize.Value)
		}
		if err != nil {
			return err
		}

		result = &SpinResult{
			Prize:   prize,
			Balance: Balance{Coins: updated.Coins, Hearts: updated.Hearts},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("Wheel spin resolved", "user_id", userID, "prize", result.Prize.Name)
	return result, nil
}

func (s *shopService) mutate(ctx context.Context, userID string, fn func(tx *gorm.DB, row *types.UserProgress) (*types.UserProgress, error)) (*Balance, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var balance *Balance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.userProgress.GetByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrUserProgressNotFound
		}
		updated, err := fn(tx, row)
		if err != nil {
			return err
		}
		balance = &Balance{Coins: updated.Coins, Hearts: updated.Hearts}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}
