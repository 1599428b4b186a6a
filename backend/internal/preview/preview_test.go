package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wayfarer/backend/pkg/errors"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:title" content="Hampi Heritage Walk">
	<meta property="og:description" content="Sunrise walk through the ruins.">
	<meta property="og:image" content="https://example.com/hampi.jpg">
	<meta property="og:site_name" content="Wayfarer Events">
</head>
<body><h1>Hello</h1></body>
</html>`

func TestFetch_OpenGraphTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	meta, err := NewFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Hampi Heritage Walk", meta.Title)
	assert.Equal(t, "Sunrise walk through the ruins.", meta.Description)
	assert.Equal(t, "https://example.com/hampi.jpg", meta.Image)
	assert.Equal(t, "Wayfarer Events", meta.SiteName)
}

func TestFetch_TitleFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Plain Page</title></head><body></body></html>`))
	}))
	defer srv.Close()

	meta, err := NewFetcher(5*time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Plain Page", meta.Title)
	assert.Empty(t, meta.Description)
	assert.Empty(t, meta.Image)
}

func TestFetch_RejectsBadURLs(t *testing.T) {
	fetcher := NewFetcher(time.Second)
	ctx := context.Background()

	for _, raw := range []string{"", "not a url", "ftp://example.com/file", "/relative/path"} {
		_, err := fetcher.Fetch(ctx, raw)
		require.Error(t, err, raw)
		assert.True(t, apperrors.Is(err, apperrors.KindValidation), raw)
	}
}

func TestFetch_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFetcher(time.Second).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindInternal))
}
