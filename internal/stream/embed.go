// SPDX-License-Identifier: MIT
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/miru-tv/miru/internal/validate"
)

// maxDescriptorBytes caps descriptor body reads. Descriptors are small
// JSON objects; anything larger is not a descriptor.
const maxDescriptorBytes = 1 << 20

const descriptorTimeout = 10 * time.Second

// Embed is the playback descriptor handed to embedding clients. StreamData
// carries the type2 payload verbatim when it could be fetched; clients
// must treat it as optional.
type Embed struct {
	EmbedURL   string          `json:"embedUrl"`
	VideoID    string          `json:"videoId"`
	StreamData json.RawMessage `json:"streamData,omitempty"`
}

// Embed resolves the playback descriptor for id from the custom origin.
// The embed URL comes from the descriptor response's url field, or the raw
// response when the origin answers with a bare URL. A descriptor failure
// fails the call; the follow-up type2 fetch is best effort.
func (s *CustomSource) Embed(ctx context.Context, id string) (*Embed, error) {
	if err := validate.VideoID(id); err != nil {
		return nil, err
	}

	body, err := s.fetchDescriptor(ctx, fmt.Sprintf("%s/api/stream/%s", s.origin, id))
	if err != nil {
		return nil, fmt.Errorf("embed: descriptor: %w", err)
	}

	e := &Embed{
		EmbedURL: embedURLFrom(body),
		VideoID:  id,
	}

	if data, err := s.fetchDescriptor(ctx, fmt.Sprintf("%s/api/stream/%s/type2", s.origin, id)); err == nil && json.Valid(data) {
		e.StreamData = data
	}
	return e, nil
}

// fetchDescriptor GETs one descriptor URL under the descriptor timeout.
func (s *CustomSource) fetchDescriptor(ctx context.Context, u string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, descriptorTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d", res.StatusCode)
	}
	return io.ReadAll(io.LimitReader(res.Body, maxDescriptorBytes))
}

// embedURLFrom extracts the embed URL from a descriptor body: the url
// field of a JSON object, a bare JSON string, or the raw body as-is.
func embedURLFrom(body []byte) string {
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &obj); err == nil && obj.URL != "" {
		return obj.URL
	}
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil && plain != "" {
		return plain
	}
	return strings.TrimSpace(string(body))
}
