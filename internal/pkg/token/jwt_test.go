package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/pkg/token"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := token.NewService("segredo", time.Minute)

	raw, err := svc.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, token.Issuer, claims.Issuer)
}

func TestGenerateToken_RequiresUser(t *testing.T) {
	_, err := token.NewService("segredo", time.Minute).GenerateToken("", "user")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func forge(t *testing.T, method jwt.SigningMethod, key interface{}, claims token.CustomClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func TestValidateToken_Fail(t *testing.T) {
	svc := token.NewService("segredo", time.Minute)
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))

	other, err := token.NewService("outro-segredo", time.Minute).GenerateToken("user-1", "user")
	require.NoError(t, err)
	expired, err := token.NewService("segredo", -time.Minute).GenerateToken("user-1", "user")
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"outra chave", other},
		{"expirado", expired},
		{"lixo", "abc.def.ghi"},
		{"emissor estranho", forge(t, jwt.SigningMethodHS256, []byte("segredo"), token.CustomClaims{
			UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "outro", ExpiresAt: exp},
		})},
		{"sem expiração", forge(t, jwt.SigningMethodHS256, []byte("segredo"), token.CustomClaims{
			UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: token.Issuer},
		})},
		{"HS512", forge(t, jwt.SigningMethodHS512, []byte("segredo"), token.CustomClaims{
			UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: token.Issuer, ExpiresAt: exp},
		})},
		{"sem user_id", forge(t, jwt.SigningMethodHS256, []byte("segredo"), token.CustomClaims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: token.Issuer, ExpiresAt: exp},
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.raw)
			assert.ErrorIs(t, err, token.ErrInvalidToken)
		})
	}
}
