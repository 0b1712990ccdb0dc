package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"healthcare-org-admin/internal/logger"
)

// StartResetTokenSweeper periodically removes reset tokens that expired long
// enough ago to be useless even for auditing. Blocks until ctx is cancelled.
func (s *UserService) StartResetTokenSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Reset token sweeper started",
		zap.Duration("interval", interval),
	)

	s.sweepExpiredResetTokens(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reset token sweeper stopped")
			return
		case <-ticker.C:
			s.sweepExpiredResetTokens(ctx)
		}
	}
}

func (s *UserService) sweepExpiredResetTokens(ctx context.Context) {
	olderThan := 24 * time.Hour
	if err := s.repo.DeleteExpiredResetTokens(ctx, olderThan); err != nil {
		logger.Error("Failed to delete expired reset tokens", zap.Error(err))
		return
	}

	logger.Debug("Expired reset tokens swept",
		zap.Duration("older_than", olderThan),
	)
}
