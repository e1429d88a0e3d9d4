package stream

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// closeTracker wraps a reader and records whether Close was called.
type closeTracker struct {
	io.Reader
	closed atomic.Bool
}

func (c *closeTracker) Close() error {
	c.closed.Store(true)
	return nil
}

// failingWriter simulates a client that disconnects after a few bytes.
type failingWriter struct {
	header  http.Header
	written int
	limit   int
}

func (f *failingWriter) Header() http.Header {
	if f.header == nil {
		f.header = make(http.Header)
	}
	return f.header
}

func (f *failingWriter) WriteHeader(int) {}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.written >= f.limit {
		return 0, errors.New("client gone")
	}
	f.written += len(p)
	return len(p), nil
}

func TestRelay_HeadersAndBody(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	upstream := &closeTracker{Reader: strings.NewReader("0123456789")}
	media := &Media{
		ContentType:   "video/webm",
		ContentLength: 10,
		Body:          upstream,
		Tier:          "custom",
	}

	rec := httptest.NewRecorder()
	n, err := Relay(rec, media)
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)

	assert.Equal(t, "video/webm", rec.Header().Get("Content-Type"))
	assert.Equal(t, "10", rec.Header().Get("Content-Length"))
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "0123456789", rec.Body.String())
	assert.True(t, upstream.closed.Load(), "upstream body must be closed after the relay")
}

func TestRelay_UnknownLengthOmitsHeader(t *testing.T) {
	media := &Media{
		ContentType:   "video/mp4",
		ContentLength: -1,
		Body:          io.NopCloser(strings.NewReader("abc")),
		Tier:          "extraction",
	}

	rec := httptest.NewRecorder()
	_, err := Relay(rec, media)
	require.NoError(t, err)
	assert.Empty(t, rec.Header().Get("Content-Length"))
}

func TestRelay_ClientDisconnectClosesUpstream(t *testing.T) {
	upstream := &closeTracker{Reader: strings.NewReader(strings.Repeat("x", 1<<20))}
	media := &Media{
		ContentType: "video/mp4",
		Body:        upstream,
		Tier:        "custom",
	}

	w := &failingWriter{limit: 64 << 10}
	_, err := Relay(w, media)
	require.Error(t, err)
	assert.True(t, upstream.closed.Load(), "upstream must be closed promptly when the client goes away")
}
