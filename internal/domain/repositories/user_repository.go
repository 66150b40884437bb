package repositories

import (
	"context"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	"github.com/maisaeducacao/students-api/internal/domain/query"
)

// UserRepository define a interface para persistência de usuários.
// Buscas unitárias retornam (nil, nil) quando o registro não existe.
// Violações de unicidade retornam os erros de conflito do domínio.
// Update de um registro inexistente retorna errors.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByIDAndRole(ctx context.Context, id string, role entities.Role) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByCPF(ctx context.Context, cpf string) (*entities.User, error)
	FindByRA(ctx context.Context, ra string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, d query.Descriptor) ([]*entities.User, error)
	Count(ctx context.Context, p query.Predicate) (int64, error)
}
