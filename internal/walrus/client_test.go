package walrus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_NewlyCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/blobs", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("epochs"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "png-bytes", string(body))

		w.Write([]byte(`{"newlyCreated":{"blobObject":{"blobId":"B1","size":9},"cost":10}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	blob, err := New(srv.URL, "https://agg.example").Store(context.Background(), strings.NewReader("png-bytes"), 3)
	require.NoError(t, err)
	assert.Equal(t, "B1", blob.BlobID)
	assert.Equal(t, "https://agg.example/v1/blobs/B1", blob.URL)
	assert.False(t, blob.AlreadyCertified)
}

func TestStore_AlreadyCertified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"alreadyCertified":{"blobId":"B2","endEpoch":40}}`)) //nolint:errcheck
	}))
	defer srv.Close()

	blob, err := New(srv.URL, "https://agg.example").Store(context.Background(), strings.NewReader("x"), 0)
	require.NoError(t, err)
	assert.Equal(t, "B2", blob.BlobID)
	assert.True(t, blob.AlreadyCertified)
}

func TestStore_Errors(t *testing.T) {
	_, err := New("", "https://agg.example").Store(context.Background(), strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrUploadsDisabled)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write([]byte("too big")) //nolint:errcheck
	}))
	defer srv.Close()

	_, err = New(srv.URL, "").Store(context.Background(), strings.NewReader("x"), 1)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, httpErr.StatusCode)
}
