package userservice

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"stockledger/internal/domain"
	apperror "stockledger/internal/errors"
	"stockledger/internal/pkg/logger"
)

const minPasswordLength = 8

// UserRepository define o contrato de persistência de usuários.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// UserService implementa registro e login.
type UserService struct {
	UserRepo    UserRepository
	TokenSvc    TokenService
	adminEmails map[string]struct{}
	logger      logger.Logger
}

// NewService cria uma nova instância do UserService.
// E-mails em adminEmails são registrados com o papel admin.
func NewService(repo UserRepository, tokenSvc TokenService, adminEmails []string, logger logger.Logger) *UserService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &UserService{UserRepo: repo, TokenSvc: tokenSvc, adminEmails: admins, logger: logger}
}

// Register registra um novo usuário com a senha em hash bcrypt.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(registration.Email))
	if email == "" || registration.Password == "" {
		return domain.User{}, apperror.NewValidationError("Email e senha são obrigatórios.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, apperror.NewFieldValidationError("email", "Email inválido.")
	}
	if len(registration.Password) < minPasswordLength {
		return domain.User{}, apperror.NewFieldValidationError("password", "A senha deve ter pelo menos 8 caracteres.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	role := domain.RoleUser
	if _, ok := s.adminEmails[email]; ok {
		role = domain.RoleAdmin
	}

	user, err := s.UserRepo.Save(ctx, domain.User{Email: email, PasswordHash: string(hashedPassword), Role: role})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// Login autentica um usuário e emite um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// NotFound vira 401 para não revelar quais e-mails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"user_id": user.ID})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}
	return tokenString, nil
}
