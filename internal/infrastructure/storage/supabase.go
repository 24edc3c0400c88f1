// Package storage implementa ports.ObjectStorage: Supabase Storage por REST y GridFS.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
)

var _ ports.ObjectStorage = (*SupabaseStorage)(nil)

// SupabaseStorage cliente de la API REST de Supabase Storage.
type SupabaseStorage struct {
	httpClient *resty.Client
	baseURL    string
}

// NewSupabaseStorage construye el cliente con la service key del proyecto.
func NewSupabaseStorage(baseURL, serviceKey string) *SupabaseStorage {
	base := strings.TrimSuffix(baseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/storage/v1").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", serviceKey)).
		SetHeader("apikey", serviceKey).
		SetTimeout(30 * time.Second)

	return &SupabaseStorage{httpClient: restyClient, baseURL: base}
}

// apiError cuerpo de error de Supabase Storage.
type apiError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path string, body io.Reader, _ int64, opts ports.UploadOptions) error {
	apiErr := new(apiError)
	req := s.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetError(apiErr).
		SetHeader("x-upsert", strconv.FormatBool(opts.Upsert))
	if opts.ContentType != "" {
		req.SetHeader("Content-Type", opts.ContentType)
	}
	if opts.CacheControl != "" {
		req.SetHeader("Cache-Control", "max-age="+opts.CacheControl)
	}

	resp, err := req.Post(objectPath(bucket, path))
	if err != nil {
		return fmt.Errorf("supabase storage upload: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return fmt.Errorf("supabase storage error: code=%d, message=%s", resp.StatusCode(), message)
	}
	return nil
}

// PublicURL URL del objeto en un bucket público.
func (s *SupabaseStorage) PublicURL(bucket, path string) string {
	return s.baseURL + "/storage/v1" + publicPath(bucket, path)
}

func objectPath(bucket, path string) string {
	return "/object/" + url.PathEscape(bucket) + "/" + escapePath(path)
}

func publicPath(bucket, path string) string {
	return "/object/public/" + url.PathEscape(bucket) + "/" + escapePath(path)
}

// escapePath escapa cada segmento y conserva las barras.
func escapePath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
