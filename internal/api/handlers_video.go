// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/miru-tv/miru/internal/invidious"
)

// handleTrending serves GET /api/trending.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	videos, err := s.agg.Trending(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}
	if videos == nil {
		videos = []invidious.Video{}
	}
	writeJSON(w, http.StatusOK, videos)
}

// handleVideo serves GET /api/video/{videoId}.
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	detail, err := s.agg.VideoDetail(r.Context(), chi.URLParam(r, "videoId"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleEmbed serves GET /api/embed/{videoId}.
func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	embed, err := s.embed.Embed(r.Context(), chi.URLParam(r, "videoId"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, embed)
}

// handleYtdl serves GET /api/ytdl/{videoId}?quality=. It runs the
// extraction tier only and returns its metadata without opening a stream.
func (s *Server) handleYtdl(w http.ResponseWriter, r *http.Request) {
	info, err := s.extract.Info(r.Context(), chi.URLParam(r, "videoId"), r.URL.Query().Get("quality"))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
