// SPDX-License-Identifier: MIT
package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/miru-tv/miru/internal/invidious"
)

// VideoDetail is the client-facing video record: the provider's canonical
// metadata plus the synthesized streaming options. Never persisted;
// constructed fresh per request.
type VideoDetail struct {
	invidious.Video
	StreamingOptions StreamingOptions `json:"streamingOptions"`
}

// StreamingOptions is the unified multi-source streaming descriptor for a
// single video. Field names follow the established client wire format.
type StreamingOptions struct {
	Embed         string                     `json:"embed"`
	Video         string                     `json:"video"`
	Audio         string                     `json:"audio"`
	Progressive   []invidious.FormatStream   `json:"invidious"`
	Adaptive      []invidious.AdaptiveFormat `json:"adaptive"`
	AdaptiveAudio []invidious.AdaptiveFormat `json:"invidiousAudio"`
}

// BuildStreamingOptions synthesizes the streaming descriptor for a video.
// The origin URLs are deterministic templates needing no network call; the
// format lists come from metadata already fetched, so this step can never
// fail the surrounding video-detail request.
func BuildStreamingOptions(origin, id string, v *invidious.Video) StreamingOptions {
	opts := StreamingOptions{
		Embed:         fmt.Sprintf("%s/api/stream/%s", origin, id),
		Video:         fmt.Sprintf("%s/api/stream/%s/type2", origin, id),
		Audio:         fmt.Sprintf("%s/api/stream/%s/type2", origin, id),
		Progressive:   []invidious.FormatStream{},
		Adaptive:      []invidious.AdaptiveFormat{},
		AdaptiveAudio: []invidious.AdaptiveFormat{},
	}
	if v == nil {
		return opts
	}
	if v.FormatStreams != nil {
		opts.Progressive = v.FormatStreams
	}
	if v.AdaptiveFormats != nil {
		opts.Adaptive = v.AdaptiveFormats
	}
	opts.AdaptiveAudio = audioFormats(v.AdaptiveFormats)
	return opts
}

// audioFormats selects the audio renditions from an adaptive format list
// and orders them by descending bitrate. The sort is stable: equal or
// unparseable bitrates keep their original relative order.
func audioFormats(formats []invidious.AdaptiveFormat) []invidious.AdaptiveFormat {
	out := make([]invidious.AdaptiveFormat, 0, len(formats))
	for _, f := range formats {
		if isAudioFormat(f) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return parseBitrate(out[i].Bitrate) > parseBitrate(out[j].Bitrate)
	})
	return out
}

// isAudioFormat is a best-effort classifier over several heuristic
// signals: an audio MIME type, an audio-quality marker, an mp4 container
// without a video quality label, or an opus/aac codec tag. The signals are
// OR-ed; none takes precedence.
func isAudioFormat(f invidious.AdaptiveFormat) bool {
	return strings.Contains(f.Type, "audio") ||
		f.AudioQuality != "" ||
		(strings.Contains(f.Type, "mp4") && f.QualityLabel == "") ||
		strings.Contains(f.Encoding, "opus") ||
		strings.Contains(f.Encoding, "aac")
}

// parseBitrate converts the upstream decimal string; missing or malformed
// values sort as 0.
func parseBitrate(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
