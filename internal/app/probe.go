package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultProbeInterval = 30 * time.Second

// Pinger is the one call the probe needs. *catalog.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StartProbe launches a background goroutine that pings the API at a fixed
// cadence so the connectivity indicator recovers without user action. The
// client reports each outcome to its observer; the probe only logs. It
// returns immediately. A non-positive interval disables the probe.
func StartProbe(ctx context.Context, client Pinger, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 || client == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			probe(ctx, client, interval, logger)
		}
	}()
}

func probe(ctx context.Context, client Pinger, interval time.Duration, logger *zap.Logger) {
	// A ping must not outlive its own tick.
	callCtx, cancel := context.WithTimeout(ctx, interval)
	defer cancel()
	if err := client.Ping(callCtx); err != nil && ctx.Err() == nil {
		logger.Debug("probe failed", zap.Error(err))
	}
}
