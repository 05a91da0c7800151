package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractLinkMetadataOpenGraphWins(t *testing.T) {
	srv := serveHTML(t, `<!DOCTYPE html>
<html><head>
<title>Plain Title</title>
<meta property="og:title" content="OG Title">
<meta property="og:site_name" content="Example Press">
<meta property="og:description" content="A solar coop story.">
<meta property="og:image" content="https://cdn.example.com/cover.jpg">
</head><body></body></html>`)

	meta, err := ExtractLinkMetadata(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "OG Title", meta.Title)
	assert.Equal(t, "Example Press", meta.SiteName)
	assert.Equal(t, "A solar coop story.", meta.Description)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", meta.Image)
}

func TestExtractLinkMetadataFallbacks(t *testing.T) {
	srv := serveHTML(t, `<!DOCTYPE html>
<html><head>
<title>Only A Title</title>
<meta name="description" content="Described the plain way.">
</head><body></body></html>`)

	meta, err := ExtractLinkMetadata(srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Only A Title", meta.Title)
	assert.Equal(t, "Described the plain way.", meta.Description)
	// Site name falls back to the hostname
	assert.Equal(t, "127.0.0.1", meta.SiteName)
}

func TestExtractLinkMetadataUnreachable(t *testing.T) {
	_, err := ExtractLinkMetadata("http://127.0.0.1:1/nothing-here")
	require.Error(t, err)
	assert.EqualError(t, err, "failed to extract metadata")
}
