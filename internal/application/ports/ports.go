// Package ports define los puertos de salida hacia servicios externos
// (almacenamiento de archivos y lista de tokens revocados).
// Los casos de uso solo conocen estos contratos, no los adaptadores concretos.
package ports

import (
	"context"
	"io"
	"time"
)

// UploadOptions opciones de subida de un objeto.
type UploadOptions struct {
	ContentType  string
	CacheControl string // ej. "3600"
	Upsert       bool   // reemplaza el objeto si ya existe
}

// ObjectStorage almacenamiento de archivos por bucket y ruta.
// Adaptadores: Supabase Storage (REST) y GridFS.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, body io.Reader, size int64, opts UploadOptions) error
	// PublicURL URL pública del objeto. No verifica que exista.
	PublicURL(bucket, path string) string
}

// ObjectReader permite servir objetos almacenados por la propia API.
// Lo implementan los adaptadores que no exponen una URL pública propia.
type ObjectReader interface {
	Download(ctx context.Context, bucket, path string) (body io.ReadCloser, contentType string, err error)
}

// TokenDenylist lista de tokens revocados (jti) hasta su vencimiento.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
