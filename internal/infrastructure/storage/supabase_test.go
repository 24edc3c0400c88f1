package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
)

func TestSupabaseStorage_Upload(t *testing.T) {
	var got *http.Request
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"avatars/user-1/1.png"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL+"/", "service-key")
	err := s.Upload(context.Background(), "avatars", "user-1/1.png", strings.NewReader("png!"), 4, ports.UploadOptions{
		ContentType: "image/png", CacheControl: "3600", Upsert: true,
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/storage/v1/object/avatars/user-1/1.png", got.URL.Path)
	assert.Equal(t, "Bearer service-key", got.Header.Get("Authorization"))
	assert.Equal(t, "service-key", got.Header.Get("apikey"))
	assert.Equal(t, "true", got.Header.Get("x-upsert"))
	assert.Equal(t, "max-age=3600", got.Header.Get("Cache-Control"))
	assert.Equal(t, "image/png", got.Header.Get("Content-Type"))
	assert.Equal(t, "png!", body)
}

func TestSupabaseStorage_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"404","error":"Bucket not found","message":"Bucket not found"}`))
	}))
	defer srv.Close()

	err := NewSupabaseStorage(srv.URL, "k").Upload(context.Background(), "nope", "a.png", strings.NewReader("x"), 1, ports.UploadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bucket not found")
}

func TestSupabaseStorage_PublicURL(t *testing.T) {
	s := NewSupabaseStorage("https://abc.supabase.co", "k")
	assert.Equal(t,
		"https://abc.supabase.co/storage/v1/object/public/avatars/user-1/foto%20nueva.png",
		s.PublicURL("avatars", "user-1/foto nueva.png"))
}
