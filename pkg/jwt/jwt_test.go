package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := jwt.Generate("secreto", "user-1", "ana@example.com", "ventas-api", 30)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), tok.ExpiresAt, 5*time.Second)

	claims, err := jwt.Parse("secreto", tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, tok.ID, claims.ID)
	assert.Equal(t, "ventas-api", claims.Issuer)
}

func TestGenerate_JTIDistintoPorToken(t *testing.T) {
	a, err := jwt.Generate("secreto", "user-1", "", "", 5)
	require.NoError(t, err)
	b, err := jwt.Generate("secreto", "user-1", "", "", 5)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate("secreto", "user-1", "", "", 5)
	require.NoError(t, err)
	_, err = jwt.Parse("otro", tok.Value)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "", "", 5)
	assert.Error(t, err)
	_, err = jwt.Parse("", "x")
	assert.Error(t, err)
}
