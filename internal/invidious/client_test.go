package invidious

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Ping(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := New(mock.URL, Options{})
	require.NoError(t, c.Ping(context.Background()))

	mock.SetHealthy(false)
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
}

func TestClient_Ping_Timeout(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetDelay("stats", 200*time.Millisecond)

	c := New(mock.URL, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Ping(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Ping_ConnectionRefused(t *testing.T) {
	// Grab an address that refuses connections.
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base, Options{})
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Search(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetSearchResults([]Video{
		{Type: "video", VideoID: "dQw4w9WgXcQ", Title: "cat video", LengthSeconds: 212},
		{Type: "channel", Title: "cat channel"},
	})

	c := New(mock.URL, Options{Region: "JP", Locale: "ja"})
	results, err := c.Search(context.Background(), SearchParams{Query: "cat", Page: 1, Sort: "relevance", Type: "video"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].IsVideo())
	assert.False(t, results[1].IsVideo())
}

func TestClient_Search_UpstreamError(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetFailStatus("search", http.StatusInternalServerError)

	c := New(mock.URL, Options{})
	_, err := c.Search(context.Background(), SearchParams{Query: "cat"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "search", apiErr.Operation)
}

func TestClient_Search_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	c := New(srv.URL, Options{})
	_, err := c.Search(context.Background(), SearchParams{Query: "cat"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestClient_Video(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetVideo(Video{
		Type:    "video",
		VideoID: "abc123_-XYZ",
		Title:   "title",
		FormatStreams: []FormatStream{
			{URL: "https://cdn.example/progressive.mp4", Container: "mp4", QualityLabel: "360p"},
		},
		AdaptiveFormats: []AdaptiveFormat{
			{URL: "https://cdn.example/audio", Type: "audio/mp4", Bitrate: "128000", AudioQuality: "AUDIO_QUALITY_MEDIUM"},
		},
	})

	c := New(mock.URL, Options{Region: "JP"})
	v, err := c.Video(context.Background(), "abc123_-XYZ")
	require.NoError(t, err)
	assert.Equal(t, "title", v.Title)
	require.Len(t, v.FormatStreams, 1)
	require.Len(t, v.AdaptiveFormats, 1)
	assert.Equal(t, "128000", v.AdaptiveFormats[0].Bitrate)
}

func TestClient_Video_NotFound(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := New(mock.URL, Options{})
	_, err := c.Video(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
}

func TestClient_Suggestions(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetSuggestions("cat", []string{"cat video", "cat compilation"})

	c := New(mock.URL, Options{Locale: "ja"})
	s, err := c.Suggestions(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat video", "cat compilation"}, s.Suggestions)
}

func TestClient_Trending_Pages(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetTrendingPage(1, []Video{{Type: "video", VideoID: "page1"}})
	mock.SetTrendingPage(2, []Video{{Type: "video", VideoID: "page2"}})

	c := New(mock.URL, Options{})
	page1, err := c.Trending(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page1, 1)
	assert.Equal(t, "page1", page1[0].VideoID)

	page2, err := c.Trending(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "page2", page2[0].VideoID)
}
