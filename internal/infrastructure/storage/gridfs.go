package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

var (
	_ ports.ObjectStorage = (*GridFSStorage)(nil)
	_ ports.ObjectReader  = (*GridFSStorage)(nil)
)

// GridFSStorage guarda los archivos en MongoDB GridFS; cada bucket de la API es un bucket GridFS.
// La API los sirve en GET /storage/:bucket/*.
type GridFSStorage struct {
	client        *mongo.Client
	db            *mongo.Database
	publicBaseURL string
}

// NewGridFSStorage conecta a MongoDB y verifica con ping.
func NewGridFSStorage(ctx context.Context, uri, dbName, publicBaseURL string) (*GridFSStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &GridFSStorage{
		client:        client,
		db:            client.Database(dbName),
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (g *GridFSStorage) bucket(name string) (*gridfs.Bucket, error) {
	return gridfs.NewBucket(g.db, options.GridFSBucket().SetName(name))
}

// Upload sube el archivo. Con Upsert borra antes las versiones previas con el mismo nombre.
func (g *GridFSStorage) Upload(ctx context.Context, bucketName, path string, body io.Reader, _ int64, opts ports.UploadOptions) error {
	b, err := g.bucket(bucketName)
	if err != nil {
		return fmt.Errorf("gridfs bucket: %w", err)
	}
	if opts.Upsert {
		if err := g.deleteByName(ctx, b, path); err != nil {
			return err
		}
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := b.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	meta := bson.M{"contentType": opts.ContentType, "cacheControl": opts.CacheControl}
	if _, err := b.UploadFromStream(path, body, options.GridFSUpload().SetMetadata(meta)); err != nil {
		return fmt.Errorf("gridfs upload: %w", err)
	}
	return nil
}

// PublicURL URL servida por la propia API.
func (g *GridFSStorage) PublicURL(bucket, path string) string {
	return g.publicBaseURL + "/storage/" + bucket + "/" + strings.TrimPrefix(path, "/")
}

// Download abre la versión más reciente del archivo. domain.ErrNotFound si no existe.
func (g *GridFSStorage) Download(ctx context.Context, bucketName, path string) (io.ReadCloser, string, error) {
	b, err := g.bucket(bucketName)
	if err != nil {
		return nil, "", fmt.Errorf("gridfs bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := b.SetReadDeadline(deadline); err != nil {
			return nil, "", err
		}
	}
	stream, err := b.OpenDownloadStreamByName(path)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("gridfs download: %w", err)
	}
	contentType := "application/octet-stream"
	if f := stream.GetFile(); f != nil && f.Metadata != nil {
		if ct, ok := f.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			contentType = ct
		}
	}
	return stream, contentType, nil
}

// Close cierra la conexión con MongoDB.
func (g *GridFSStorage) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}

func (g *GridFSStorage) deleteByName(ctx context.Context, b *gridfs.Bucket, path string) error {
	cursor, err := b.FindContext(ctx, bson.M{"filename": path})
	if err != nil {
		return fmt.Errorf("gridfs find: %w", err)
	}
	defer cursor.Close(ctx)
	var files []struct {
		ID any `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return fmt.Errorf("gridfs find: %w", err)
	}
	for _, f := range files {
		if err := b.DeleteContext(ctx, f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("gridfs delete: %w", err)
		}
	}
	return nil
}
