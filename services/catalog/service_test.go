package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codetube-labs/codetube/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Lookup(t *testing.T) {
	t.Run("resolves metadata from oEmbed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Query().Get("url"), "dQw4w9WgXcQ")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"title":"Go Tutorial","author_name":"GopherTV","thumbnail_url":"http://img/1.jpg"}`))
		}))
		defer srv.Close()

		service := NewService(&config.YouTubeConfig{OEmbedURL: srv.URL}, nil)

		video, err := service.Lookup(context.Background(), "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, "dQw4w9WgXcQ", video.ID)
		assert.Equal(t, "Go Tutorial", video.Title)
		assert.Equal(t, "GopherTV", video.ChannelTitle)
		assert.Equal(t, "http://img/1.jpg", video.ThumbnailURL)
	})

	t.Run("404 maps to not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		service := NewService(&config.YouTubeConfig{OEmbedURL: srv.URL}, nil)

		_, err := service.Lookup(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrVideoNotFound)
	})

	t.Run("server errors propagate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		service := NewService(&config.YouTubeConfig{OEmbedURL: srv.URL}, nil)

		_, err := service.Lookup(context.Background(), "abc")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrVideoNotFound)
	})
}

func TestService_Search(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		service := NewService(&config.YouTubeConfig{}, nil)

		_, err := service.Search(context.Background(), "golang", 10)
		assert.ErrorIs(t, err, ErrSearchNotEnabled)
	})

	t.Run("maps search results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "golang", r.URL.Query().Get("q"))
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items":[
				{"id":{"videoId":"v1"},"snippet":{"title":"First","channelTitle":"Ch1","description":"d1","thumbnails":{"medium":{"url":"http://img/a.jpg"}}}},
				{"id":{"videoId":"v2"},"snippet":{"title":"Second","channelTitle":"Ch2","description":"d2","thumbnails":{"medium":{"url":"http://img/b.jpg"}}}}
			]}`))
		}))
		defer srv.Close()

		service := NewService(&config.YouTubeConfig{APIKey: "test-key", APIURL: srv.URL}, nil)

		videos, err := service.Search(context.Background(), "golang", 10)
		require.NoError(t, err)
		require.Len(t, videos, 2)
		assert.Equal(t, "v1", videos[0].ID)
		assert.Equal(t, "Second", videos[1].Title)
		assert.Equal(t, "http://img/b.jpg", videos[1].ThumbnailURL)
	})

	t.Run("clamps an out-of-range limit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "12", r.URL.Query().Get("maxResults"))
			_, _ = w.Write([]byte(`{"items":[]}`))
		}))
		defer srv.Close()

		service := NewService(&config.YouTubeConfig{APIKey: "test-key", APIURL: srv.URL}, nil)

		videos, err := service.Search(context.Background(), "golang", 500)
		require.NoError(t, err)
		assert.Empty(t, videos)
	})
}
