// SPDX-License-Identifier: MIT
package stream

import (
	"io"
	"net/http"
	"strconv"

	"github.com/miru-tv/miru/internal/metrics"
)

// Relay pipes an open media stream to the client with the correct HTTP
// framing. Bytes flow through io.Copy, so client backpressure propagates
// to the upstream read and nothing is buffered beyond the copy window.
// A client disconnect fails the copy, which closes the upstream body and
// stops the fetch promptly.
func Relay(w http.ResponseWriter, media *Media) (int64, error) {
	defer media.Body.Close()

	w.Header().Set("Content-Type", media.ContentType)
	if media.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(media.ContentLength, 10))
	}
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	n, err := io.Copy(w, media.Body)
	metrics.AddRelayBytes(media.Tier, n)
	return n, err
}
