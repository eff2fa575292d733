package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/25.png":
			_, _ = w.Write([]byte("artwork-bytes"))
		case "/404.png":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())

	bs, err := c.Fetch(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, []byte("artwork-bytes"), bs)

	_, err = c.Fetch(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Fetch(context.Background(), 500)
	assert.ErrorIs(t, err, ErrTransient)
}

func TestClientFetchNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, zap.NewNop())

	_, err := c.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, ErrTransient)
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", zap.NewNop())
	_, err := c.Fetch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "/7.png", gotPath)
}
