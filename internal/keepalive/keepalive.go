// Package keepalive runs a periodic probe against the database so that
// managed hosting does not evict idle connections between bursts of site
// traffic.
package keepalive

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval matches the eviction windows observed on free-tier
// database hosting.
const DefaultInterval = 2 * time.Minute

// Pinger is the interface the keep-alive loop needs from the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Loop issues a trivial query on a fixed interval, independent of request
// traffic. Failures are logged and the loop keeps going; the next request
// will surface a real outage on its own.
type Loop struct {
	pinger   Pinger
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Loop. A non-positive interval falls back to DefaultInterval.
func New(pinger Pinger, interval time.Duration, logger *slog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		pinger:   pinger,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the background loop. Non-blocking.
func (l *Loop) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.ping(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (l *Loop) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	l.wg.Wait()
}

func (l *Loop) ping(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := l.pinger.Ping(pingCtx); err != nil {
		l.logger.Warn("keep-alive ping failed", "error", err)
		return
	}
	l.logger.Debug("keep-alive ping ok")
}
