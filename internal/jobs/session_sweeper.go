package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// IdleEvictor removes session nodes that have been idle for at least idle
type IdleEvictor interface {
	EvictIdle(ctx context.Context, idle time.Duration) int
}

// StartSessionSweeper evicts idle nodes every interval until ctx is done.
// The returned channel is closed once the sweeper goroutine has exited.
func StartSessionSweeper(ctx context.Context, evictor IdleEvictor, interval, idle time.Duration, lgr zerolog.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		interval = time.Minute
	}
	if idle <= 0 {
		lgr.Info().Msg("Session sweeper disabled: idle TTL is not positive")
		close(done)
		return done
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := evictor.EvictIdle(ctx, idle); n > 0 {
					lgr.Debug().Int("evicted", n).Msg("Session sweep finished")
				}
			}
		}
	}()
	return done
}
