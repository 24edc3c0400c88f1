package profile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ────────────────────────────────────────────────────────────────────────────

type upload struct {
	bucket, path string
	body         []byte
	opts         ports.UploadOptions
}

type fakeStorage struct {
	uploads []upload
	err     error
}

func (f *fakeStorage) Upload(_ context.Context, bucket, path string, body io.Reader, _ int64, opts ports.UploadOptions) error {
	if f.err != nil {
		return f.err
	}
	b, _ := io.ReadAll(body)
	f.uploads = append(f.uploads, upload{bucket: bucket, path: path, body: b, opts: opts})
	return nil
}

func (f *fakeStorage) PublicURL(bucket, path string) string {
	return "https://cdn.example.com/" + bucket + "/" + path
}

// failingUsers falla al actualizar la cuenta.
type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) Update(context.Context, *entity.User) error { return errors.New("timeout") }

var (
	sess  = session.Session{UserID: "user-1"}
	fixed = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
)

func seedUser(t *testing.T, store *memory.Store) {
	t.Helper()
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{
		ID: "user-1", Email: "ana@example.com", FirstName: "Ana", Status: entity.UserStatusActive,
	}))
}

func newUseCase(store *memory.Store, users repository.UserRepository, storage ports.ObjectStorage) *UseCase {
	uc := NewUseCase(store.Profiles(), users, storage, "avatars", nil)
	uc.now = func() time.Time { return fixed }
	return uc
}

// ────────────────────────────────────────────────────────────────────────────
// Get / Update
// ────────────────────────────────────────────────────────────────────────────

func TestGet_SinFilaUsaDatosDeLaCuenta(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store)

	p, err := newUseCase(store, store.Users(), nil).Get(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, p.Persisted)
	assert.Equal(t, "Ana", p.FirstName)
	assert.Equal(t, "ana@example.com", p.Email)
}

func TestUpdate_CreaFilaYCambiaEmailDeLaCuenta(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store)
	ctx := context.Background()
	uc := newUseCase(store, store.Users(), nil)

	p, err := uc.Update(ctx, sess, dto.ProfileRequest{FirstName: "Ana María", Email: "Nueva@Example.com", Phone: "555"})
	require.NoError(t, err)
	assert.True(t, p.Persisted)
	assert.Equal(t, "nueva@example.com", p.Email)

	u, err := store.Users().GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "nueva@example.com", u.Email)

	row, err := store.Profiles().GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Ana María", row.FirstName)
}

func TestUpdate_EmailDuplicado(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store)
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "user-2", Email: "luis@example.com"}))

	_, err := newUseCase(store, store.Users(), nil).Update(ctx, sess, dto.ProfileRequest{Email: "luis@example.com"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
}

// ────────────────────────────────────────────────────────────────────────────
// UploadAvatar
// ────────────────────────────────────────────────────────────────────────────

func TestUploadAvatar_RutaYOpciones(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store)
	storage := &fakeStorage{}
	ctx := context.Background()

	res, err := newUseCase(store, store.Users(), storage).UploadAvatar(ctx, sess, AvatarUpload{
		Filename: "foto.PNG", ContentType: "image/png", Size: 4, Body: bytes.NewReader([]byte("\x89PNG")),
	})
	require.NoError(t, err)

	require.Len(t, storage.uploads, 1)
	up := storage.uploads[0]
	assert.Equal(t, "avatars", up.bucket)
	assert.Equal(t, "user-1/1773135000000.png", up.path)
	assert.Equal(t, "3600", up.opts.CacheControl)
	assert.True(t, up.opts.Upsert)
	assert.Equal(t, "image/png", up.opts.ContentType)

	assert.Equal(t, "https://cdn.example.com/avatars/user-1/1773135000000.png", res.AvatarURL)
	assert.Empty(t, res.Warnings)

	row, _ := store.Profiles().GetByUserID(ctx, "user-1")
	require.NotNil(t, row)
	assert.Equal(t, res.AvatarURL, row.AvatarURL)
	u, _ := store.Users().GetByID(ctx, "user-1")
	assert.Equal(t, res.AvatarURL, u.AvatarURL)
}

func TestUploadAvatar_TipoNoPermitido(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store)
	storage := &fakeStorage{}

	_, err := newUseCase(store, store.Users(), storage).UploadAvatar(context.Background(), sess, AvatarUpload{
		Filename: "doc.pdf", ContentType: "application/pdf", Size: 10, Body: bytes.NewReader(nil),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, storage.uploads)
}

func TestUploadAvatar_FallaCuentaEsAdvertencia(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store)

	res, err := newUseCase(store, failingUsers{store.Users()}, &fakeStorage{}).UploadAvatar(context.Background(), sess, AvatarUpload{
		Filename: "a.jpg", ContentType: "image/jpeg", Size: 3, Body: bytes.NewReader([]byte("abc")),
	})
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 1)
	row, _ := store.Profiles().GetByUserID(context.Background(), "user-1")
	require.NotNil(t, row)
	assert.Equal(t, res.AvatarURL, row.AvatarURL)
}

func TestUploadAvatar_SinStorage(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store)
	_, err := newUseCase(store, store.Users(), nil).UploadAvatar(context.Background(), sess, AvatarUpload{
		ContentType: "image/png", Size: 1, Body: bytes.NewReader([]byte("x")),
	})
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
}

func TestUploadAvatar_ErrorDeSubidaNoTocaElPerfil(t *testing.T) {
	store := memory.NewStore()
	seedUser(t, store)
	_, err := newUseCase(store, store.Users(), &fakeStorage{err: errors.New("503")}).UploadAvatar(context.Background(), sess, AvatarUpload{
		ContentType: "image/webp", Size: 1, Body: bytes.NewReader([]byte("x")),
	})
	require.Error(t, err)
	row, _ := store.Profiles().GetByUserID(context.Background(), "user-1")
	assert.Nil(t, row)
}
