package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
)

// DefaultCost usado para senhas de administradores
const DefaultCost = 12

// BcryptHasher implementa ports.PasswordHasher
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cria um hasher; custos fora do intervalo do bcrypt usam DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

var _ ports.PasswordHasher = (*BcryptHasher)(nil)

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
