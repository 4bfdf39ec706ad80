package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageServiceUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID test-client", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "base64", r.FormValue("type"))
		assert.Equal(t, "aW1n", r.FormValue("image"))
		w.Write([]byte(`{"data":{"id":"abc","link":"https://i.imgur.com/abc.jpg"},"success":true,"status":200}`))
	}))
	defer server.Close()

	s := NewImageService("test-client")
	s.Endpoint = server.URL

	res, err := s.Upload(strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://i.imgur.com/abc.jpg", res.URL)
	assert.Equal(t, "abc", res.ID)
}

func TestImageServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"status":400}`))
	}))
	defer server.Close()

	s := NewImageService("test-client")
	s.Endpoint = server.URL
	_, err := s.Upload(strings.NewReader("img"))
	assert.Error(t, err)

	_, err = NewImageService("").Upload(strings.NewReader("img"))
	assert.ErrorIs(t, err, ErrImgurNotConfigured)
}
