// SPDX-License-Identifier: MIT
package stream

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// CustomSource streams from the custom origin's per-identifier type-2
// media endpoint. It is the first and preferred tier.
type CustomSource struct {
	origin string
	http   *http.Client
}

// NewCustomSource builds the custom-origin tier. connectTimeout bounds
// dialing and response headers only; the body transfer itself is never
// timed out, media relays can run for hours.
func NewCustomSource(origin string, connectTimeout time.Duration) *CustomSource {
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	return &CustomSource{
		origin: strings.TrimRight(origin, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
				TLSHandshakeTimeout:   connectTimeout,
				ResponseHeaderTimeout: connectTimeout,
			},
		},
	}
}

// Name implements Source.
func (s *CustomSource) Name() string { return "custom" }

// Open implements Source. The upstream content type is forwarded verbatim
// with video/mp4 as the default; content length is forwarded when known.
func (s *CustomSource) Open(ctx context.Context, id, _ string) (*Media, error) {
	u := fmt.Sprintf("%s/api/stream/%s/type2", s.origin, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("custom origin: HTTP %d", res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	return &Media{
		ContentType:   contentType,
		ContentLength: res.ContentLength,
		Body:          res.Body,
	}, nil
}
