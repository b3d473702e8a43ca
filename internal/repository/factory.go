package repository

import (
	"github.com/navikt/roomalloc/internal/config"
	"github.com/navikt/roomalloc/internal/repository/memory"
	"github.com/navikt/roomalloc/internal/repository/redis"
	"github.com/sirupsen/logrus"
)

// NewRepository returns the Redis repository when enabled, otherwise the in-memory one
func NewRepository(cfg config.RedisConfig, historyLimit int) (Repository, error) {
	if cfg.Enabled {
		logrus.WithField("prefix", cfg.KeyPrefix).Info("Using Redis booking history")
		return redis.NewRepository(cfg, historyLimit)
	}

	logrus.Info("Using in-memory booking history")
	return memory.NewRepository(historyLimit), nil
}
