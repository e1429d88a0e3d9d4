package pool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miru-tv/miru/internal/invidious"
)

// countingInstance is a minimal stats-only instance that records how many
// probes it received.
type countingInstance struct {
	srv    *httptest.Server
	probes atomic.Int64
	status atomic.Int64
}

func newCountingInstance(status int) *countingInstance {
	ci := &countingInstance{}
	ci.status.Store(int64(status))
	ci.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/stats" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		ci.probes.Add(1)
		w.WriteHeader(int(ci.status.Load()))
	}))
	return ci
}

func (ci *countingInstance) client() *invidious.Client {
	return invidious.New(ci.srv.URL, invidious.Options{})
}

func TestAcquire_FirstHealthyWins(t *testing.T) {
	a := newCountingInstance(http.StatusOK)
	defer a.srv.Close()
	b := newCountingInstance(http.StatusOK)
	defer b.srv.Close()

	p := New([]*invidious.Client{a.client(), b.client()}, time.Second)
	got, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a.srv.URL, got.Base())
	assert.EqualValues(t, 1, a.probes.Load())
	assert.EqualValues(t, 0, b.probes.Load())
}

func TestAcquire_SkipsUnhealthyAndAdvancesCursor(t *testing.T) {
	down := newCountingInstance(http.StatusBadGateway)
	defer down.srv.Close()
	up := newCountingInstance(http.StatusOK)
	defer up.srv.Close()

	p := New([]*invidious.Client{down.client(), up.client()}, time.Second)

	got, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, up.srv.URL, got.Base())

	// Cursor parked on the healthy instance: the next acquisition must not
	// re-probe the dead one.
	downProbes := down.probes.Load()
	got, err = p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, up.srv.URL, got.Base())
	assert.Equal(t, downProbes, down.probes.Load())
}

func TestAcquire_PoolExhausted(t *testing.T) {
	a := newCountingInstance(http.StatusServiceUnavailable)
	defer a.srv.Close()
	b := newCountingInstance(http.StatusServiceUnavailable)
	defer b.srv.Close()

	p := New([]*invidious.Client{a.client(), b.client()}, time.Second)
	_, err := p.Acquire(context.Background())
	require.ErrorIs(t, err, ErrNoProviderAvailable)

	// Exactly one full rotation, no unbounded looping.
	assert.EqualValues(t, 1, a.probes.Load())
	assert.EqualValues(t, 1, b.probes.Load())
}

func TestAcquire_EmptyPool(t *testing.T) {
	p := New(nil, time.Second)
	_, err := p.Acquire(context.Background())
	require.ErrorIs(t, err, ErrNoProviderAvailable)
}

func TestAcquire_BoundedBySlowProbe(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer slow.Close()
	up := newCountingInstance(http.StatusOK)
	defer up.srv.Close()

	p := New([]*invidious.Client{
		invidious.New(slow.URL, invidious.Options{}),
		up.client(),
	}, 50*time.Millisecond)

	started := time.Now()
	got, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, up.srv.URL, got.Base())
	assert.Less(t, time.Since(started), time.Second, "slow probe must be cut off by the per-probe timeout")
}

func TestAcquire_ContextCancelled(t *testing.T) {
	a := newCountingInstance(http.StatusOK)
	defer a.srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New([]*invidious.Client{a.client()}, time.Second)
	_, err := p.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAcquire_RecoversAfterInstanceReturns(t *testing.T) {
	flappy := newCountingInstance(http.StatusBadGateway)
	defer flappy.srv.Close()

	p := New([]*invidious.Client{flappy.client()}, time.Second)
	_, err := p.Acquire(context.Background())
	require.ErrorIs(t, err, ErrNoProviderAvailable)

	flappy.status.Store(http.StatusOK)
	got, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, flappy.srv.URL, got.Base())
}
