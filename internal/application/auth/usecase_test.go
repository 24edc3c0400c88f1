package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

type fixture struct {
	store    *memory.Store
	denylist *cache.MemoryDenylist
	events   []session.Event
	uc       *auth.AuthUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), denylist: cache.NewMemoryDenylist()}
	hub := session.NewHub()
	unsubscribe := hub.Subscribe(func(e session.Event) { f.events = append(f.events, e) })
	t.Cleanup(unsubscribe)
	f.uc = auth.NewAuthUseCase(f.store.Users(), f.store.Profiles(), f.denylist, hub,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, nil)
	return f
}

func (f *fixture) signUp(t *testing.T) *dto.UserResponse {
	t.Helper()
	u, err := f.uc.SignUp(context.Background(), dto.SignUpRequest{
		Email: " Ana@Example.com ", Password: "clave-segura", FirstName: "Ana", LastName: "Pérez",
	})
	require.NoError(t, err)
	return u
}

func TestSignUp_CreaUsuarioYPerfil(t *testing.T) {
	f := newFixture(t)
	u := f.signUp(t)

	assert.Equal(t, "ana@example.com", u.Email)
	profile, err := f.store.Profiles().GetByUserID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Ana", profile.FirstName)

	require.Len(t, f.events, 1)
	assert.Equal(t, session.EventSignedUp, f.events[0].Type)
}

func TestSignUp_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	_, err := f.uc.SignUp(context.Background(), dto.SignUpRequest{Email: "ANA@example.com", Password: "otra-clave"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
}

func TestSignUp_PasswordCorta(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.SignUp(context.Background(), dto.SignUpRequest{Email: "x@example.com", Password: "1234"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestLogin_TokenConJTI(t *testing.T) {
	f := newFixture(t)
	u := f.signUp(t)

	res, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, session.EventSignedIn, f.events[len(f.events)-1].Type)
}

func TestLogin_Errores(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	_, err := f.uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogout_RevocaElToken(t *testing.T) {
	f := newFixture(t)
	u := f.signUp(t)
	ctx := context.Background()

	s := session.Session{UserID: u.ID, Email: u.Email, TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.uc.Logout(ctx, s))

	revoked, err := f.denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, session.EventSignedOut, f.events[len(f.events)-1].Type)

	assert.True(t, errors.Is(f.uc.Logout(ctx, session.Session{}), domain.ErrUnauthorized))
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	u := f.signUp(t)

	me, err := f.uc.Me(context.Background(), session.Session{UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, "Pérez", me.LastName)

	_, err = f.uc.Me(context.Background(), session.Session{UserID: "otro"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
