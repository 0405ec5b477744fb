package app

import (
	"time"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/utils"
)

type Config struct {
	Port                string
	JWTSecretKey        string
	LeaderboardCacheTTL time.Duration
	AvatarMediaDir      string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	cacheTTLSeconds := utils.GetEnvAsInt("LEADERBOARD_CACHE_TTL", 30, log)
	avatarMediaDir := utils.GetEnv("AVATAR_MEDIA_DIR", "./media/avatars", log)
	return Config{
		Port:                port,
		JWTSecretKey:        jwtSecretKey,
		LeaderboardCacheTTL: time.Duration(cacheTTLSeconds) * time.Second,
		AvatarMediaDir:      avatarMediaDir,
	}
}
