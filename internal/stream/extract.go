// SPDX-License-Identifier: MIT
package stream

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/miru-tv/miru/internal/validate"
)

// Extractor is the slice of the youtube client the extraction tier needs.
// *youtube.Client satisfies it; tests substitute a stub.
type Extractor interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// ExtractionSource resolves media through direct extraction. It is the
// last tier of the chain and also backs the extraction metadata endpoint.
type ExtractionSource struct {
	client Extractor
}

// NewExtractionSource builds the extraction tier.
func NewExtractionSource(client Extractor) *ExtractionSource {
	if client == nil {
		client = &youtube.Client{}
	}
	return &ExtractionSource{client: client}
}

// Name implements Source.
func (s *ExtractionSource) Name() string { return "extraction" }

// Open implements Source. Only combined audio+video renditions qualify;
// "highest" picks the top bitrate, anything else the bottom.
func (s *ExtractionSource) Open(ctx context.Context, id, quality string) (*Media, error) {
	video, err := s.client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}

	format := chooseFormat(combinedFormats(video), quality)
	if format == nil {
		return nil, ErrNoSuitableFormat
	}

	body, length, err := s.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("extraction: open stream: %w", err)
	}
	return &Media{
		ContentType:   "video/mp4",
		ContentLength: length,
		Body:          body,
	}, nil
}

// Format is the client-facing view of one extracted rendition.
type Format struct {
	Quality   string `json:"quality"`
	URL       string `json:"url"`
	HasAudio  bool   `json:"hasAudio"`
	HasVideo  bool   `json:"hasVideo"`
	Container string `json:"container"`
	Bitrate   int    `json:"bitrate"`
}

// VideoInfo is the extraction metadata payload.
type VideoInfo struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Length      int64    `json:"length"`
	ViewCount   int      `json:"viewCount"`
	Author      string   `json:"author"`
	StreamURL   string   `json:"streamUrl"`
	Quality     string   `json:"quality"`
	Formats     []Format `json:"formats"`
}

// Info resolves extraction metadata without opening a byte stream. The
// identifier shape is checked before any network call.
func (s *ExtractionSource) Info(ctx context.Context, id, quality string) (*VideoInfo, error) {
	if err := validate.VideoID(id); err != nil {
		return nil, err
	}
	video, err := s.client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}

	combined := combinedFormats(video)
	if len(combined) == 0 {
		return nil, ErrNoSuitableFormat
	}
	chosen := chooseFormat(combined, quality)

	info := &VideoInfo{
		Title:       video.Title,
		Description: video.Description,
		Length:      int64(video.Duration.Seconds()),
		ViewCount:   video.Views,
		Author:      video.Author,
		StreamURL:   chosen.URL,
		Quality:     chosen.QualityLabel,
		Formats:     make([]Format, 0, len(combined)),
	}
	for _, f := range combined {
		info.Formats = append(info.Formats, Format{
			Quality:   f.QualityLabel,
			URL:       f.URL,
			HasAudio:  f.AudioChannels > 0,
			HasVideo:  f.QualityLabel != "",
			Container: containerOf(f.MimeType),
			Bitrate:   f.Bitrate,
		})
	}
	return info, nil
}

// combinedFormats returns renditions carrying both audio and video,
// ordered best bitrate first.
func combinedFormats(video *youtube.Video) []*youtube.Format {
	out := make([]*youtube.Format, 0, len(video.Formats))
	for i := range video.Formats {
		f := &video.Formats[i]
		if f.AudioChannels > 0 && f.QualityLabel != "" {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bitrate > out[j].Bitrate
	})
	return out
}

// chooseFormat maps the quality hint onto the ordered candidate list.
func chooseFormat(candidates []*youtube.Format, quality string) *youtube.Format {
	if len(candidates) == 0 {
		return nil
	}
	if quality == "highest" || quality == "" {
		return candidates[0]
	}
	return candidates[len(candidates)-1]
}

func containerOf(mimeType string) string {
	base := strings.SplitN(mimeType, ";", 2)[0]
	parts := strings.SplitN(base, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
