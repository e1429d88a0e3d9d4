// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/miru-tv/miru/internal/log"
	"github.com/miru-tv/miru/internal/store"
	"github.com/miru-tv/miru/internal/validate"
)

// userID resolves the acting user from the userId query parameter. The
// front end is single-user by default, so an absent parameter maps to a
// fixed account.
func userID(r *http.Request) string {
	if id := r.URL.Query().Get("userId"); id != "" {
		return id
	}
	return "default"
}

// handleHistoryList serves GET /api/history?userId=.
func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.History(r.Context(), userID(r))
	if err != nil {
		mapError(w, err)
		return
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleHistoryAdd serves POST /api/history?userId=.
func (s *Server) handleHistoryAdd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		VideoID   string `json:"videoId"`
		Title     string `json:"title"`
		Author    string `json:"author"`
		Thumbnail string `json:"thumbnail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := validate.VideoID(body.VideoID); err != nil {
		mapError(w, err)
		return
	}

	entry, err := s.store.AddHistory(r.Context(), userID(r), store.HistoryEntry{
		VideoID:   body.VideoID,
		Title:     body.Title,
		Author:    body.Author,
		Thumbnail: body.Thumbnail,
	})
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// handleHistoryRemove serves DELETE /api/history/{entryId}?userId=.
func (s *Server) handleHistoryRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveHistory(r.Context(), userID(r), chi.URLParam(r, "entryId")); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// handleHistoryClear serves DELETE /api/history?userId=.
func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if err := s.store.ClearHistory(r.Context(), uid); err != nil {
		mapError(w, err)
		return
	}
	historyLogger := log.WithContext(r.Context(), log.WithComponent("history"))
	historyLogger.Info().
		Str(log.FieldUserID, uid).
		Str(log.FieldEvent, "history.cleared").
		Msg("watch history cleared")
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handlePreferencesGet serves GET /api/preferences?userId=. Unknown users
// get the defaults, never a 404.
func (s *Server) handlePreferencesGet(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.store.Preferences(r.Context(), userID(r))
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// handlePreferencesPut serves PUT /api/preferences?userId=. Only fields
// present in the body are updated.
func (s *Server) handlePreferencesPut(w http.ResponseWriter, r *http.Request) {
	var upd store.PreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	prefs, err := s.store.UpdatePreferences(r.Context(), userID(r), upd)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
