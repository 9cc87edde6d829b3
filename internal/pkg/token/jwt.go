// Package token emite e valida os JWTs de acesso à API.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer identifica os tokens emitidos por este serviço.
const Issuer = "stockledger"

// ErrInvalidToken é devolvido para qualquer token recusado.
var ErrInvalidToken = errors.New("token inválido")

// TokenService define o contrato para manipulação de JWTs.
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims carrega o usuário e o papel global. O user_id vira o ator
// registrado em transferências e ajustes.
type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service assina tokens HS256 com a chave do serviço.
type Service struct {
	secretKey []byte
	expiry    time.Duration
	parser    *jwt.Parser
}

// NewService cria o serviço de tokens; expiry é o tempo de vida de cada token emitido.
func NewService(secretKey string, expiry time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// GenerateToken emite um token para o usuário.
func (s *Service) GenerateToken(userID string, userRole string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: user_id vazio", ErrInvalidToken)
	}
	now := time.Now()
	claims := CustomClaims{
		UserID: userID,
		Role:   userRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}
	return signed, nil
}

// ValidateToken confere assinatura, emissor e validade e devolve as claims.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: user_id ausente", ErrInvalidToken)
	}
	return claims, nil
}
