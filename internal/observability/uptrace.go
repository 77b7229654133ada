package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// initUptrace configures the global OpenTelemetry providers and, when log export is on,
// mirrors records at or above UPTRACE_LOG_MIN_LEVEL.
func initUptrace(cfg config.Config, logger *logging.Logger) func(context.Context) error {
	logging.SetMirror(nil)
	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Debug("uptrace disabled", "enabled", cfg.UptraceEnabled)
		return nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newUptraceLogMirror(cfg.ServiceVersion, cfg.UptraceMinLevel))
	}

	logger.Info("uptrace enabled",
		"logs_enabled", cfg.UptraceLogsEnabled,
		"logs_min_level", cfg.UptraceMinLevel.String(),
	)
	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}
}
