// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/tracknarino/backend/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{External: appCfg.OSRMTimeout})
	logger.Info("startup complete",
		zap.Bool("push_enabled", appCfg.PushEnabled),
		zap.Bool("osrm_configured", appCfg.OSRMBaseURL != ""))
	return nil
}
