package invidious

// Thumbnail is one rendition of a video's thumbnail, ordered by preference
// in the upstream payload.
type Thumbnail struct {
	Quality string `json:"quality,omitempty"`
	URL     string `json:"url"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// FormatStream is a progressive (audio+video) rendition from formatStreams.
type FormatStream struct {
	URL          string `json:"url"`
	Itag         string `json:"itag,omitempty"`
	Type         string `json:"type,omitempty"`
	Quality      string `json:"quality,omitempty"`
	Container    string `json:"container,omitempty"`
	Encoding     string `json:"encoding,omitempty"`
	QualityLabel string `json:"qualityLabel,omitempty"`
	Resolution   string `json:"resolution,omitempty"`
	Size         string `json:"size,omitempty"`
}

// AdaptiveFormat is a single-track rendition from adaptiveFormats. Bitrate
// is a decimal string upstream; missing or malformed values are tolerated.
type AdaptiveFormat struct {
	URL          string `json:"url"`
	Itag         string `json:"itag,omitempty"`
	Type         string `json:"type,omitempty"`
	Bitrate      string `json:"bitrate,omitempty"`
	Container    string `json:"container,omitempty"`
	Encoding     string `json:"encoding,omitempty"`
	QualityLabel string `json:"qualityLabel,omitempty"`
	Resolution   string `json:"resolution,omitempty"`
	AudioQuality string `json:"audioQuality,omitempty"`
}

// Video is the upstream video record. Search and trending return a partial
// view of it; the per-video endpoint fills description and format lists.
// Absent fields decode to zero values rather than failing the record.
type Video struct {
	Type            string           `json:"type,omitempty"`
	Title           string           `json:"title"`
	VideoID         string           `json:"videoId"`
	Author          string           `json:"author,omitempty"`
	AuthorID        string           `json:"authorId,omitempty"`
	AuthorURL       string           `json:"authorUrl,omitempty"`
	VideoThumbnails []Thumbnail      `json:"videoThumbnails,omitempty"`
	Description     string           `json:"description,omitempty"`
	ViewCount       int64            `json:"viewCount,omitempty"`
	Published       int64            `json:"published,omitempty"`
	PublishedText   string           `json:"publishedText,omitempty"`
	LengthSeconds   int64            `json:"lengthSeconds,omitempty"`
	LiveNow         bool             `json:"liveNow,omitempty"`
	FormatStreams   []FormatStream   `json:"formatStreams,omitempty"`
	AdaptiveFormats []AdaptiveFormat `json:"adaptiveFormats,omitempty"`
}

// IsVideo reports whether the record's discriminant marks it as a plain
// video (as opposed to a channel, playlist or other search result type).
func (v *Video) IsVideo() bool {
	return v.Type == "video"
}

// Suggestions is the search suggestion payload.
type Suggestions struct {
	Query       string   `json:"query,omitempty"`
	Suggestions []string `json:"suggestions"`
}
