package workers

import (
	"time"

	"artnuggets/internal/logger"
	"artnuggets/internal/repositories"
)

// TokenCleanupWorker периодически удаляет истекшие и отозванные
// refresh-токены.
type TokenCleanupWorker struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	interval         time.Duration
}

func NewTokenCleanupWorker(repo repositories.RefreshTokenRepository, interval time.Duration) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		refreshTokenRepo: repo,
		interval:         interval,
	}
}

// Run блокирует горутину; вызывать как go worker.Run().
func (w *TokenCleanupWorker) Run() {
	// Первый проход сразу при старте
	w.cleanup()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		w.cleanup()
	}
}

func (w *TokenCleanupWorker) cleanup() {
	deleted, err := w.refreshTokenRepo.DeleteExpired()
	if err != nil {
		logger.Error("Failed to clean expired refresh tokens", "error", err)
		return
	}
	if deleted > 0 {
		logger.Info("Cleaned expired refresh tokens", "count", deleted)
	}
}
