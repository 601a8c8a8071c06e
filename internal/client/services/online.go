package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fieldtrack/internal/client/client"
	"github.com/dmitrijs2005/fieldtrack/internal/logging"
)

// OnlineWatcher periodically pings the server and exposes the result as a
// boolean advisory. The flag is advisory only: a pass started while "online"
// can still hit a dead server and fails normally.
type OnlineWatcher struct {
	remote   client.Remote
	interval time.Duration
	logger   logging.Logger
	online   atomic.Bool
}

func NewOnlineWatcher(remote client.Remote, interval time.Duration, logger logging.Logger) *OnlineWatcher {
	return &OnlineWatcher{
		remote:   remote,
		interval: interval,
		logger:   logger.With("component", "online"),
	}
}

// Online reports the last observed connectivity state.
func (w *OnlineWatcher) Online() bool {
	return w.online.Load()
}

// Run probes until ctx is cancelled. The first probe happens immediately so
// startup does not wait a full interval for the flag to settle.
func (w *OnlineWatcher) Run(ctx context.Context) {
	w.probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.probe(ctx)
		}
	}
}

func (w *OnlineWatcher) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	err := w.remote.Ping(probeCtx)
	was := w.online.Load()
	now := err == nil
	w.online.Store(now)

	if was != now {
		if now {
			w.logger.Info(ctx, "server reachable, going online")
		} else {
			w.logger.Warn(ctx, "server unreachable, going offline", "error", err)
		}
	}
}
