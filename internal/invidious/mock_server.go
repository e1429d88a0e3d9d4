// SPDX-License-Identifier: MIT
package invidious

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockServer provides a configurable Invidious mock instance for testing.
type MockServer struct {
	*httptest.Server
	mu          sync.RWMutex
	healthy     bool
	suggestions map[string][]string
	search      []Video
	trending    map[int][]Video // page -> results
	videos      map[string]Video
	delay       map[string]time.Duration // artificial delay per endpoint
	failStatus  map[string]int           // forced status per endpoint (0 = off)
}

// NewMockServer creates a mock instance with empty data and a passing
// liveness endpoint.
func NewMockServer() *MockServer {
	mock := &MockServer{
		healthy:     true,
		suggestions: make(map[string][]string),
		trending:    make(map[int][]Video),
		videos:      make(map[string]Video),
		delay:       make(map[string]time.Duration),
		failStatus:  make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/stats", mock.handleStats)
	mux.HandleFunc("/api/v1/search/suggestions", mock.handleSuggestions)
	mux.HandleFunc("/api/v1/search", mock.handleSearch)
	mux.HandleFunc("/api/v1/trending", mock.handleTrending)
	mux.HandleFunc("/api/v1/videos/", mock.handleVideo)

	mock.Server = httptest.NewServer(mux)
	return mock
}

// SetHealthy toggles the liveness endpoint.
func (m *MockServer) SetHealthy(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = ok
}

// SetSuggestions registers suggestion results for a query.
func (m *MockServer) SetSuggestions(query string, suggestions []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestions[query] = suggestions
}

// SetSearchResults registers the result list returned for any search.
func (m *MockServer) SetSearchResults(results []Video) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.search = results
}

// SetTrendingPage registers the result list for one trending page.
func (m *MockServer) SetTrendingPage(page int, results []Video) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trending[page] = results
}

// SetVideo registers a canonical video record.
func (m *MockServer) SetVideo(v Video) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[v.VideoID] = v
}

// SetDelay adds an artificial delay before responses from an endpoint
// ("stats", "search", "trending", "video", "suggestions").
func (m *MockServer) SetDelay(endpoint string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay[endpoint] = d
}

// SetFailStatus forces an endpoint to answer with the given status code.
// A zero status restores normal behaviour.
func (m *MockServer) SetFailStatus(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStatus[endpoint] = status
}

func (m *MockServer) gate(w http.ResponseWriter, endpoint string) bool {
	m.mu.RLock()
	d := m.delay[endpoint]
	status := m.failStatus[endpoint]
	m.mu.RUnlock()
	if d > 0 {
		time.Sleep(d)
	}
	if status != 0 {
		w.WriteHeader(status)
		return false
	}
	return true
}

func (m *MockServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	if !m.gate(w, "stats") {
		return
	}
	m.mu.RLock()
	healthy := m.healthy
	m.mu.RUnlock()
	if !healthy {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	writeMockJSON(w, map[string]any{"version": "2.0", "openRegistrations": false})
}

func (m *MockServer) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "suggestions") {
		return
	}
	q := r.URL.Query().Get("q")
	m.mu.RLock()
	s := m.suggestions[q]
	m.mu.RUnlock()
	if s == nil {
		s = []string{}
	}
	writeMockJSON(w, Suggestions{Query: q, Suggestions: s})
}

func (m *MockServer) handleSearch(w http.ResponseWriter, _ *http.Request) {
	if !m.gate(w, "search") {
		return
	}
	m.mu.RLock()
	results := m.search
	m.mu.RUnlock()
	if results == nil {
		results = []Video{}
	}
	writeMockJSON(w, results)
}

func (m *MockServer) handleTrending(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "trending") {
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page == 0 {
		page = 1
	}
	m.mu.RLock()
	results := m.trending[page]
	m.mu.RUnlock()
	if results == nil {
		results = []Video{}
	}
	writeMockJSON(w, results)
}

func (m *MockServer) handleVideo(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "video") {
		return
	}
	id := r.URL.Path[len("/api/v1/videos/"):]
	m.mu.RLock()
	v, ok := m.videos[id]
	m.mu.RUnlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		writeMockJSON(w, map[string]string{"error": "video not found"})
		return
	}
	writeMockJSON(w, v)
}

func writeMockJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
