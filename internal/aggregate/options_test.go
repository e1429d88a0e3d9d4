package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miru-tv/miru/internal/invidious"
)

func TestIsAudioFormat(t *testing.T) {
	tests := []struct {
		name   string
		format invidious.AdaptiveFormat
		want   bool
	}{
		{
			name:   "audio mime type",
			format: invidious.AdaptiveFormat{Type: "audio/webm; codecs=\"opus\""},
			want:   true,
		},
		{
			name:   "audio quality marker",
			format: invidious.AdaptiveFormat{Type: "video/mp4", QualityLabel: "720p", AudioQuality: "AUDIO_QUALITY_LOW"},
			want:   true,
		},
		{
			name:   "mp4 without quality label",
			format: invidious.AdaptiveFormat{Type: "video/mp4; codecs=\"mp4a.40.2\""},
			want:   true,
		},
		{
			name:   "opus encoding tag",
			format: invidious.AdaptiveFormat{Type: "video/webm", QualityLabel: "480p", Encoding: "opus"},
			want:   true,
		},
		{
			name:   "aac encoding tag",
			format: invidious.AdaptiveFormat{Type: "video/webm", QualityLabel: "480p", Encoding: "aac"},
			want:   true,
		},
		{
			name:   "plain video format",
			format: invidious.AdaptiveFormat{Type: "video/webm; codecs=\"vp9\"", QualityLabel: "1080p", Encoding: "vp9"},
			want:   false,
		},
		{
			name:   "empty format",
			format: invidious.AdaptiveFormat{},
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAudioFormat(tt.format)
			assert.Equal(t, tt.want, got)
			// Idempotent: classifying again gives the same answer.
			assert.Equal(t, got, isAudioFormat(tt.format))
		})
	}
}

func TestAudioFormats_SortedByDescendingBitrate(t *testing.T) {
	formats := []invidious.AdaptiveFormat{
		{URL: "low", Type: "audio/mp4", Bitrate: "48000"},
		{URL: "high", Type: "audio/mp4", Bitrate: "160000"},
		{URL: "mid", Type: "audio/mp4", Bitrate: "128000"},
	}
	got := audioFormats(formats)
	require.Len(t, got, 3)
	assert.Equal(t, "high", got[0].URL)
	assert.Equal(t, "mid", got[1].URL)
	assert.Equal(t, "low", got[2].URL)
}

func TestAudioFormats_StableForMissingBitrates(t *testing.T) {
	formats := []invidious.AdaptiveFormat{
		{URL: "first", Type: "audio/mp4"},
		{URL: "second", Type: "audio/mp4", Bitrate: "not-a-number"},
		{URL: "third", Type: "audio/mp4", Bitrate: ""},
	}
	got := audioFormats(formats)
	require.Len(t, got, 3)
	// All bitrates parse as 0: original order must be preserved.
	assert.Equal(t, "first", got[0].URL)
	assert.Equal(t, "second", got[1].URL)
	assert.Equal(t, "third", got[2].URL)
}

func TestAudioFormats_DisjointFromVideoOnly(t *testing.T) {
	formats := []invidious.AdaptiveFormat{
		{URL: "a", Type: "audio/webm; codecs=\"opus\"", Bitrate: "64000"},
		{URL: "v", Type: "video/webm; codecs=\"vp9\"", QualityLabel: "1080p", Bitrate: "4000000"},
	}
	audio := audioFormats(formats)
	require.Len(t, audio, 1)
	for _, f := range audio {
		assert.True(t, isAudioFormat(f))
	}
}

func TestBuildStreamingOptions_NilVideo(t *testing.T) {
	opts := BuildStreamingOptions("https://origin", "id1", nil)
	assert.Equal(t, "https://origin/api/stream/id1", opts.Embed)
	assert.NotNil(t, opts.Progressive)
	assert.NotNil(t, opts.Adaptive)
	assert.NotNil(t, opts.AdaptiveAudio)
	assert.Empty(t, opts.Progressive)
}
