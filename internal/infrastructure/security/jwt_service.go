package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/infrastructure/config"
)

const issuer = "students-api"

// Claims do token de acesso
type Claims struct {
	Role  string  `json:"role"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	CPF   string  `json:"cpf"`
	RA    *string `json:"ra,omitempty"`
	jwt.RegisteredClaims
}

// JWTService implementa ports.TokenService com HS256
type JWTService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTService cria o serviço de tokens a partir da configuração
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		expiry: cfg.AccessExpiry,
		now:    time.Now,
	}
}

var _ ports.TokenService = (*JWTService)(nil)

// Issue gera um token de acesso para o usuário
func (s *JWTService) Issue(user *entities.User) (string, error) {
	now := s.now()

	claims := Claims{
		Role:  string(user.Role),
		Name:  user.Name,
		Email: user.Email.String(),
		CPF:   user.CPF.String(),
		RA:    user.RA,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify valida assinatura e expiração; qualquer falha vira ErrUnauthorized
func (s *JWTService) Verify(tokenString string) (*ports.TokenClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, domainerrors.ErrUnauthorized
	}

	return &ports.TokenClaims{
		TokenID:   claims.ID,
		UserID:    claims.Subject,
		Role:      entities.Role(claims.Role),
		Name:      claims.Name,
		Email:     claims.Email,
		CPF:       claims.CPF,
		RA:        claims.RA,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
