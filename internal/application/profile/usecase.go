// Package profile contiene los casos de uso de la pantalla de configuración:
// datos personales y foto de perfil.
package profile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// MaxAvatarBytes tamaño máximo aceptado para la foto de perfil.
const MaxAvatarBytes = 5 << 20

const avatarCacheControl = "3600"

// avatarTypes tipos MIME admitidos y su extensión por defecto.
var avatarTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// AvatarUpload archivo recibido del formulario.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UseCase perfil del usuario.
type UseCase struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	storage  ports.ObjectStorage
	bucket   string
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. storage puede ser nil (STORAGE_DRIVER=none):
// en ese caso UploadAvatar devuelve domain.ErrStorageUnavailable.
func NewUseCase(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	storage ports.ObjectStorage,
	bucket string,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{profiles: profiles, users: users, storage: storage, bucket: bucket, log: log, now: time.Now}
}

// Get devuelve la fila de perfil o, si todavía no existe, uno armado desde la cuenta.
func (uc *UseCase) Get(ctx context.Context, s session.Session) (*dto.ProfileResponse, error) {
	p, persisted, err := uc.load(ctx, s)
	if err != nil {
		return nil, err
	}
	return toResponse(p, persisted), nil
}

// Update reemplaza nombre, apellido, teléfono y email. Si cambia el email también
// se actualiza la cuenta; un email ya registrado devuelve ErrEmailAlreadyExists.
func (uc *UseCase) Update(ctx context.Context, s session.Session, in dto.ProfileRequest) (*dto.ProfileResponse, error) {
	p, persisted, err := uc.load(ctx, s)
	if err != nil {
		return nil, err
	}
	email := auth.NormalizeEmail(in.Email)
	if email == "" {
		email = p.Email
	}
	if !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email inválido")
	}
	now := uc.now()

	if !strings.EqualFold(email, p.Email) {
		user, err := uc.users.GetByID(ctx, s.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ErrUserNotFound
		}
		user.Email = email
		user.UpdatedAt = now
		if err := uc.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	p.FirstName = strings.TrimSpace(in.FirstName)
	p.LastName = strings.TrimSpace(in.LastName)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Email = email
	p.UpdatedAt = now
	if err := uc.save(ctx, p, persisted); err != nil {
		return nil, err
	}
	return toResponse(p, true), nil
}

// UploadAvatar sube la imagen a {userID}/{unixMillis}.{ext}, guarda la URL pública en el
// perfil y luego en la cuenta. Si falla la cuenta se informa como advertencia.
func (uc *UseCase) UploadAvatar(ctx context.Context, s session.Session, in AvatarUpload) (*dto.AvatarResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	if uc.storage == nil {
		return nil, domain.ErrStorageUnavailable
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(in.ContentType, ";", 2)[0]))
	defaultExt, ok := avatarTypes[contentType]
	if !ok {
		return nil, domain.NewValidationError("tipo de archivo no permitido: use JPEG, PNG, GIF o WEBP")
	}
	if in.Size <= 0 {
		return nil, domain.NewValidationError("el archivo está vacío")
	}
	if in.Size > MaxAvatarBytes {
		return nil, domain.NewValidationError("la imagen supera el tamaño máximo de 5 MB")
	}

	now := uc.now()
	path := fmt.Sprintf("%s/%d.%s", s.UserID, now.UnixMilli(), avatarExt(in.Filename, defaultExt))
	err := uc.storage.Upload(ctx, uc.bucket, path, in.Body, in.Size, ports.UploadOptions{
		ContentType:  contentType,
		CacheControl: avatarCacheControl,
		Upsert:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("subir avatar: %w", err)
	}
	url := uc.storage.PublicURL(uc.bucket, path)

	p, persisted, err := uc.load(ctx, s)
	if err != nil {
		return nil, err
	}
	p.AvatarURL = url
	p.UpdatedAt = now
	if err := uc.save(ctx, p, persisted); err != nil {
		return nil, err
	}

	out := &dto.AvatarResponse{AvatarURL: url, Path: path, Warnings: []string{}}
	if err := uc.syncUserAvatar(ctx, s.UserID, url, now); err != nil {
		uc.log.Warn().Err(err).Str("user_id", s.UserID).Msg("avatar guardado en el perfil pero no en la cuenta")
		out.Warnings = append(out.Warnings, "la foto se guardó en el perfil pero no se pudo actualizar la cuenta")
	}
	return out, nil
}

func (uc *UseCase) syncUserAvatar(ctx context.Context, userID, url string, now time.Time) error {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	user.AvatarURL = url
	user.UpdatedAt = now
	return uc.users.Update(ctx, user)
}

// load devuelve el perfil y si existe la fila.
func (uc *UseCase) load(ctx context.Context, s session.Session) (*entity.Profile, bool, error) {
	if err := s.Require(); err != nil {
		return nil, false, err
	}
	p, err := uc.profiles.GetByUserID(ctx, s.UserID)
	if err != nil {
		return nil, false, err
	}
	if p != nil {
		return p, true, nil
	}
	user, err := uc.users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, domain.ErrUserNotFound
	}
	return entity.ProfileFromUser(user), false, nil
}

func (uc *UseCase) save(ctx context.Context, p *entity.Profile, persisted bool) error {
	if persisted {
		return uc.profiles.Update(ctx, p)
	}
	p.ID = uuid.New().String()
	p.CreatedAt = p.UpdatedAt
	return uc.profiles.Create(ctx, p)
}

// avatarExt extensión del nombre original si es de imagen; si no, la del tipo MIME.
func avatarExt(filename, fallback string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp":
		return ext
	}
	return fallback
}

func toResponse(p *entity.Profile, persisted bool) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		AvatarURL: p.AvatarURL,
		Persisted: persisted,
		UpdatedAt: p.UpdatedAt,
	}
}
