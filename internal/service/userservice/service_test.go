package userservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/token"
	"stockledger/internal/repository/memstore"
	"stockledger/internal/service/userservice"
)

func newService() (*userservice.UserService, *token.Service) {
	tokens := token.NewService("segredo", time.Minute)
	store := memstore.New(time.Second, 10)
	return userservice.NewService(store, tokens, []string{"chefe@empresa.com"}, logger.NewLogger("error")), tokens
}

func TestRegisterAndLogin_Success(t *testing.T) {
	svc, tokens := newService()
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.UserRegistration{Email: " Ana@Empresa.com ", Password: "senha-forte"})
	require.NoError(t, err)
	assert.Equal(t, "ana@empresa.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "senha-forte", user.PasswordHash)

	raw, err := svc.Login(ctx, "ana@empresa.com", "senha-forte")
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegister_AdminEmail(t *testing.T) {
	svc, _ := newService()

	user, err := svc.Register(context.Background(), domain.UserRegistration{Email: "chefe@empresa.com", Password: "12345678"})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestRegister_Fail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.UserRegistration{Email: "não-é-email", Password: "12345678"})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.Register(ctx, domain.UserRegistration{Email: "a@b.com", Password: "curta"})
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = svc.Register(ctx, domain.UserRegistration{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.UserRegistration{Email: "A@B.com", Password: "12345678"})
	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestLogin_Fail_InvalidCredentials(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Register(ctx, domain.UserRegistration{Email: "a@b.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.com", "errada00")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	_, err = svc.Login(ctx, "ninguem@b.com", "12345678")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}
