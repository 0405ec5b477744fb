package app

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/devlingo/devlingo-backend/internal/clients"
	"github.com/devlingo/devlingo-backend/internal/logger"
)

type Clients struct {
	Redis *goredis.Client
}

// wireClients connects optional collaborators. A missing Redis is tolerated:
// the leaderboard then serves straight from the database.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	rdb, err := clients.NewRedisClient(log)
	if err != nil {
		log.Warn("Redis unavailable, leaderboard cache disabled", "error", err)
		rdb = nil
	}
	return Clients{Redis: rdb}
}
