// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"strconv"

	"github.com/miru-tv/miru/internal/aggregate"
)

// handleSuggestions serves GET /api/search/suggestions?q=. The endpoint is
// a convenience for typeahead and always answers 200 with an array.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	suggestions := s.agg.Suggest(r.Context(), q)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// handleLegacySuggestions serves GET /api/suggestions?q=, the older payload
// shape carrying the query alongside the suggestions.
func (s *Server) handleLegacySuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, s.agg.SuggestRaw(r.Context(), q))
}

// handleSearch serves GET /api/search?q=&page=&sort=&type=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := query.Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}

	page := 1
	if raw := query.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	sortBy := query.Get("sort")
	if sortBy == "" {
		sortBy = "relevance"
	}
	typ := query.Get("type")
	if typ == "" {
		typ = "video"
	}

	videos, err := s.agg.Search(r.Context(), aggregate.SearchParams{
		Query: q,
		Page:  page,
		Sort:  sortBy,
		Type:  typ,
	})
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, videos)
}
