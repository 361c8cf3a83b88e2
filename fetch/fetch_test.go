package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieverURL(t *testing.T) {
	r := NewRetriever("")
	assert.Equal(t,
		"https://raw.githubusercontent.com/mozilla/web-ext/refs/tags/8.3.0/src/program.js",
		r.URL("8.3.0"))

	r = NewRetriever("https://example.com/{version}/a/{version}.js")
	assert.Equal(t, "https://example.com/1.0/a/1.0.js", r.URL("1.0"))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/tags/1.2.3/program.js" {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write([]byte("program.command('run')"))
	}))
	defer srv.Close()

	r := NewRetriever(srv.URL + "/tags/{version}/program.js")

	t.Run("returns body", func(t *testing.T) {
		text, err := r.Fetch(context.Background(), "1.2.3")
		require.NoError(t, err)
		assert.Equal(t, "program.command('run')", text)
	})

	t.Run("non-success status", func(t *testing.T) {
		_, err := r.Fetch(context.Background(), "9.9.9")
		require.Error(t, err)

		var rerr *RetrievalError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, http.StatusNotFound, rerr.StatusCode)
		assert.Contains(t, err.Error(), "404 Not Found")
	})
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	url := srv.URL
	srv.Close()

	r := NewRetriever(url + "/{version}")
	_, err := r.Fetch(context.Background(), "1.0.0")

	var rerr *RetrievalError
	require.True(t, errors.As(err, &rerr))
	assert.NotNil(t, rerr.Err)
	assert.Zero(t, rerr.StatusCode)
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRetriever(srv.URL+"/{version}").Fetch(ctx, "1.0.0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
