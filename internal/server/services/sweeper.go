package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
)

// Sweeper periodically purges sessions whose refresh token has expired.
type Sweeper struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	interval    time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewSweeper(db *sql.DB, m repomanager.RepositoryManager, interval time.Duration, logger logging.Logger) *Sweeper {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Sweeper{
		db:          db,
		repomanager: m,
		interval:    interval,
		logger:      logger.With("module", "sweeper"),
		now:         time.Now,
	}
}

// Sweep removes expired sessions once and returns how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error(ctx, "expired session sweep failed", "error", err)
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "expired sessions removed", "count", n)
	}
	return n, nil
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}
