// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/miru-tv/miru/internal/aggregate"
	"github.com/miru-tv/miru/internal/stream"
	"github.com/miru-tv/miru/internal/validate"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with a generic message. Upstream
// error text never reaches the client.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// mapError translates the domain error taxonomy to a status code and a
// client-safe message.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalidIdentifier):
		writeError(w, http.StatusBadRequest, "invalid video id")
	case errors.Is(err, stream.ErrNoSuitableFormat):
		writeError(w, http.StatusNotFound, "no suitable format")
	case errors.Is(err, stream.ErrNoStreamAvailable):
		writeError(w, http.StatusInternalServerError, "stream unavailable")
	case errors.Is(err, aggregate.ErrUpstream):
		writeError(w, http.StatusInternalServerError, "upstream failure")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// rateLimited is the httprate limit handler.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}
