package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

const minPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login, logout y usuario actual.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	denylist    ports.TokenDenylist
	hub         *session.Hub
	jwtCfg      JWTConfig
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. hub puede ser nil.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	denylist ports.TokenDenylist,
	hub *session.Hub,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		denylist:    denylist,
		hub:         hub,
		jwtCfg:      jwtCfg,
		log:         log,
		now:         time.Now,
	}
}

// SignUp crea el usuario (password con bcrypt) y su fila de perfil.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.UserResponse, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email inválido")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.NewValidationError("la contraseña debe tener al menos 8 caracteres")
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user, err := entity.NewUser(uuid.New().String(), email, string(hash), in.FirstName, in.LastName, now)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	profile, err := entity.NewProfile(uuid.New().String(), user)
	if err == nil {
		err = uc.profileRepo.Create(ctx, profile)
	}
	if err != nil {
		// El perfil se reconstruye desde el usuario al leerlo; el alta sigue siendo válida.
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo crear el perfil")
	}

	uc.hub.Publish(session.Event{Type: session.EventSignedUp, UserID: user.ID, Email: user.Email, At: now})
	return ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.hub.Publish(session.Event{Type: session.EventSignedIn, UserID: user.ID, Email: user.Email, At: uc.now()})
	return &dto.LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      *ToUserResponse(user),
	}, nil
}

// Logout revoca el token de la sesión hasta su vencimiento.
func (uc *AuthUseCase) Logout(ctx context.Context, s session.Session) error {
	if err := s.Require(); err != nil {
		return err
	}
	if s.TokenID != "" && uc.denylist != nil {
		if err := uc.denylist.Revoke(ctx, s.TokenID, s.ExpiresAt); err != nil {
			return err
		}
	}
	uc.hub.Publish(session.Event{Type: session.EventSignedOut, UserID: s.UserID, Email: s.Email, At: uc.now()})
	return nil
}

// Me devuelve el usuario de la sesión.
func (uc *AuthUseCase) Me(ctx context.Context, s session.Session) (*dto.UserResponse, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// NormalizeEmail quita espacios y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ToUserResponse convierte la entidad al DTO (sin hash de password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
