package ports

import (
	"context"
	"time"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
)

// TokenClaims são as informações embarcadas no token de acesso
type TokenClaims struct {
	TokenID   string
	UserID    string
	Role      entities.Role
	Name      string
	Email     string
	CPF       string
	RA        *string
	ExpiresAt time.Time
}

// TokenService emite e verifica tokens assinados
type TokenService interface {
	Issue(user *entities.User) (string, error)
	Verify(token string) (*TokenClaims, error)
}

// PasswordHasher gera e compara hashes de senha
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}

// TokenDenylist guarda tokens revogados até sua expiração
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
