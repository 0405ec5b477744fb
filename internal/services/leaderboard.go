package services

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/repos"
)

const leaderboardCacheKey = "leaderboard:points"

// LeaderboardEntry is one ranked row. Rank is 1-based; ties keep retrieval
// order (the query sorts by points only).
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	ImageSrc    string `json:"image_src"`
	Points      int    `json:"points"`
	Rank        int    `json:"rank"`
}

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	Invalidate(ctx context.Context)
}

type leaderboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	userProgress repos.UserProgressRepo
	rdb          *goredis.Client
	cacheTTL     time.Duration
	group        singleflight.Group
}

// NewLeaderboardService builds the projector. rdb may be nil; the service
// then reads straight from the database on every call.
func NewLeaderboardService(db *gorm.DB, baseLog *logger.Logger, userProgressRepo repos.UserProgressRepo, rdb *goredis.Client, cacheTTL time.Duration) LeaderboardService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &leaderboardService{
		db:           db,
		log:          baseLog.With("service", "LeaderboardService"),
		userProgress: userProgressRepo,
		rdb:          rdb,
		cacheTTL:     cacheTTL,
	}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.rdb != nil {
		if cached, ok := s.fromCache(ctx); ok {
			return cached, nil
		}
	}

	// Collapse a stampede of cold-cache readers into one rebuild. The rebuild
	// runs detached from the first caller's context so its cancellation does
	// not fail every collapsed waiter.
	v, err, _ := s.group.Do(leaderboardCacheKey, func() (interface{}, error) {
		return s.rebuild(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]LeaderboardEntry), nil
}

func (s *leaderboardService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		s.log.Warn("Failed to invalidate leaderboard cache", "error", err)
	}
}

func (s *leaderboardService) fromCache(ctx context.Context) ([]LeaderboardEntry, bool) {
	raw, err := s.rdb.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		if err != goredis.Nil {
			s.log.Warn("Leaderboard cache read failed", "error", err)
		}
		return nil, false
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Warn("Leaderboard cache payload corrupt, rebuilding", "error", err)
		return nil, false
	}
	return entries, true
}

func (s *leaderboardService) rebuild(ctx context.Context) ([]LeaderboardEntry, error) {
	rows, err := s.userProgress.ListByPointsDesc(ctx, nil)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID:      row.UserID,
			DisplayName: row.UserName,
			ImageSrc:    row.UserImageSrc,
			Points:      row.Points,
			Rank:        i + 1,
		})
	}

	if s.rdb != nil {
		raw, mErr := json.Marshal(entries)
		if mErr == nil {
			if err := s.rdb.Set(ctx, leaderboardCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn("Leaderboard cache write failed", "error", err)
			}
		}
	}
	return entries, nil
}
