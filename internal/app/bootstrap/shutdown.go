// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/clubhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

var (
	bgMu    sync.Mutex
	cleanup *workers.SessionCleanup
)

// startCleanup starts w and remembers it for Shutdown. A worker from an
// earlier BuildHandler call is stopped first.
func startCleanup(w *workers.SessionCleanup) {
	bgMu.Lock()
	defer bgMu.Unlock()
	if cleanup != nil {
		cleanup.Stop()
	}
	cleanup = w
	cleanup.Start()
}

func stopCleanup() {
	bgMu.Lock()
	defer bgMu.Unlock()
	if cleanup != nil {
		cleanup.Stop()
		cleanup = nil
	}
}

// Shutdown stops background workers and disconnects from MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	stopCleanup()
	if deps.ClubHubMongoClient != nil {
		logger.Info("disconnecting ClubHub MongoDB client")
		if err := deps.ClubHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
