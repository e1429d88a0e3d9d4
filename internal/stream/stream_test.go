package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miru-tv/miru/internal/validate"
)

// fakeSource is a scriptable chain tier.
type fakeSource struct {
	name   string
	media  *Media
	err    error
	called int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Open(_ context.Context, _, _ string) (*Media, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return f.media, nil
}

func body(s string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(s))
}

func TestProxy_FirstTierWins(t *testing.T) {
	first := &fakeSource{name: "custom", media: &Media{ContentType: "video/mp4", Body: body("bytes")}}
	second := &fakeSource{name: "extraction", media: &Media{ContentType: "video/mp4", Body: body("other")}}

	p := NewProxy(first, second)
	media, err := p.Open(context.Background(), "abc123", "highest")
	require.NoError(t, err)
	defer media.Body.Close()

	assert.Equal(t, "custom", media.Tier)
	assert.Equal(t, 1, first.called)
	assert.Equal(t, 0, second.called, "later tiers must not be touched after a success")
}

func TestProxy_FallsThroughToSecondTier(t *testing.T) {
	first := &fakeSource{name: "custom", err: errors.New("connect refused")}
	second := &fakeSource{name: "extraction", media: &Media{ContentType: "video/mp4", Body: body("fallback")}}

	p := NewProxy(first, second)
	media, err := p.Open(context.Background(), "abc123", "highest")
	require.NoError(t, err)
	defer media.Body.Close()

	assert.Equal(t, "extraction", media.Tier)
	assert.Equal(t, 1, first.called)
	assert.Equal(t, 1, second.called)
}

func TestProxy_AllTiersFail(t *testing.T) {
	first := &fakeSource{name: "custom", err: errors.New("down")}
	second := &fakeSource{name: "extraction", err: errors.New("also down")}

	p := NewProxy(first, second)
	_, err := p.Open(context.Background(), "abc123", "highest")
	require.ErrorIs(t, err, ErrNoStreamAvailable)
}

func TestProxy_NoSuitableFormatSurfaces(t *testing.T) {
	first := &fakeSource{name: "custom", err: errors.New("down")}
	second := &fakeSource{name: "extraction", err: ErrNoSuitableFormat}

	p := NewProxy(first, second)
	_, err := p.Open(context.Background(), "abc123", "highest")
	require.ErrorIs(t, err, ErrNoSuitableFormat)
	assert.NotErrorIs(t, err, ErrNoStreamAvailable)
}

func TestProxy_InvalidIDRejectedBeforeAnySource(t *testing.T) {
	src := &fakeSource{name: "custom", media: &Media{Body: body("x")}}

	p := NewProxy(src)
	_, err := p.Open(context.Background(), "bad/id", "highest")
	require.ErrorIs(t, err, validate.ErrInvalidIdentifier)
	assert.Equal(t, 0, src.called)
}

func TestProxy_EmptyChain(t *testing.T) {
	p := NewProxy()
	_, err := p.Open(context.Background(), "abc123", "highest")
	require.ErrorIs(t, err, ErrNoStreamAvailable)
}
