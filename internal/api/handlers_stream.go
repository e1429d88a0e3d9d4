// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/miru-tv/miru/internal/log"
	"github.com/miru-tv/miru/internal/stream"
)

// handleStream serves GET /api/stream/{videoId}?quality=. The body is
// relayed incrementally; a write failure here means the client went away,
// not that the request failed.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "videoId")
	media, err := s.proxy.Open(r.Context(), id, r.URL.Query().Get("quality"))
	if err != nil {
		mapError(w, err)
		return
	}

	logger := log.WithContext(r.Context(), log.WithComponent("stream"))
	n, err := stream.Relay(w, media)
	if err != nil {
		logger.Debug().
			Err(err).
			Str(log.FieldVideoID, id).
			Str(log.FieldTier, media.Tier).
			Int64("bytes", n).
			Str(log.FieldEvent, "stream.aborted").
			Msg("relay ended early")
		return
	}
	logger.Info().
		Str(log.FieldVideoID, id).
		Str(log.FieldTier, media.Tier).
		Int64("bytes", n).
		Str(log.FieldEvent, "stream.complete").
		Msg("relay complete")
}
