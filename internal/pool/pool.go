// Package pool maintains the rotating set of upstream provider instances
// and answers "give me one healthy provider" under a deadline.
package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/miru-tv/miru/internal/invidious"
	"github.com/miru-tv/miru/internal/log"
	"github.com/miru-tv/miru/internal/metrics"
)

// ErrNoProviderAvailable is returned when every instance in the pool has
// been probed once without success.
var ErrNoProviderAvailable = errors.New("pool: no provider available")

// Pool probes providers in cyclic order starting at a shared cursor. The
// cursor is a hint shared across requests: it parks on the last known-good
// instance so the next acquisition starts there. Races on the cursor are
// tolerated; it never affects correctness, only probe cost.
type Pool struct {
	clients      []*invidious.Client
	cursor       atomic.Int64
	probeTimeout time.Duration
	probes       singleflight.Group
	logger       zerolog.Logger
}

// New builds a pool over the given provider clients. probeTimeout bounds
// each individual liveness probe.
func New(clients []*invidious.Client, probeTimeout time.Duration) *Pool {
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Second
	}
	return &Pool{
		clients:      clients,
		probeTimeout: probeTimeout,
		logger:       log.WithComponent("pool"),
	}
}

// Size returns the number of configured providers.
func (p *Pool) Size() int {
	return len(p.clients)
}

// Acquire returns the first provider that answers its liveness probe,
// starting at the shared cursor. Each instance is probed at most once per
// acquisition; probe failures are logged and skipped. When the whole pool
// has been tried, it fails with ErrNoProviderAvailable.
func (p *Pool) Acquire(ctx context.Context) (*invidious.Client, error) {
	n := len(p.clients)
	if n == 0 {
		return nil, ErrNoProviderAvailable
	}

	started := time.Now()
	start := int(p.cursor.Load()) % n
	if start < 0 {
		start = 0
	}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx := (start + i) % n
		client := p.clients[idx]

		if err := p.probe(ctx, client); err != nil {
			metrics.IncProbe(client.Base(), false)
			p.logger.Debug().
				Err(err).
				Str(log.FieldInstance, client.Base()).
				Str(log.FieldEvent, "probe.failed").
				Msg("instance not reachable, trying next")
			continue
		}

		metrics.IncProbe(client.Base(), true)
		metrics.ObservePoolAcquire(time.Since(started))
		p.cursor.Store(int64(idx))
		return client, nil
	}

	metrics.PoolExhaustedTotal.Inc()
	p.logger.Warn().
		Int("instances", n).
		Str(log.FieldEvent, "pool.exhausted").
		Msg("no reachable provider instance")
	return nil, ErrNoProviderAvailable
}

// probe runs the liveness call under the per-probe timeout. Concurrent
// acquisitions probing the same instance share a single in-flight probe.
func (p *Pool) probe(ctx context.Context, client *invidious.Client) error {
	_, err, _ := p.probes.Do(client.Base(), func() (any, error) {
		probeCtx, cancel := context.WithTimeout(ctx, p.probeTimeout)
		defer cancel()
		return nil, client.Ping(probeCtx)
	})
	return err
}
