package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartPoolMonitor pings the store every interval and logs the pool
// statistics. It only reports; nothing is retried or reconnected.
func StartPoolMonitor(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := db.PingContext(ctx); err != nil {
					log.Error("store unreachable", zap.Error(err))
					continue
				}
				s := db.Stats()
				log.Debug("connection pool stats",
					zap.Int("open", s.OpenConnections),
					zap.Int("in_use", s.InUse),
					zap.Int("idle", s.Idle),
					zap.Int64("wait_count", s.WaitCount),
					zap.Duration("wait_duration", s.WaitDuration),
				)
			}
		}
	}()
}
